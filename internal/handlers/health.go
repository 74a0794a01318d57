package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cdmasterk/orcafx/internal/database"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string              `json:"status"`
	Database  string              `json:"database"`
	MetalFeed string              `json:"metal_feed"`
	Pool      *database.PoolStats `json:"pool,omitempty"`
}

// HealthCheck handles the health check endpoint
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		MetalFeed: "not configured",
	}
	if metalRefresher != nil {
		response.MetalFeed = "configured"
	}

	if database.Pool() != nil {
		if err := database.Status(c.Request.Context()); err != nil {
			response.Status = "degraded"
			response.Database = "disconnected"
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
		response.Database = "connected"
		response.Pool = database.Stats()
	} else {
		response.Database = "not configured"
	}

	c.JSON(http.StatusOK, response)
}
