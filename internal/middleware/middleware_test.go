package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw...)
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return router
}

func get(router *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping?x=1", nil)
	if key != "" {
		req.Header.Set(InternalAPIKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestInternalAuthMiddleware(t *testing.T) {
	router := newRouter(InternalAuthMiddleware("s3cret"))

	tests := []struct {
		name   string
		key    string
		status int
	}{
		{"valid key", "s3cret", http.StatusOK},
		{"wrong key", "s3cres", http.StatusUnauthorized},
		{"prefix of key", "s3c", http.StatusUnauthorized},
		{"missing key", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, get(router, tt.key).Code)
		})
	}
}

func TestInternalAuthMiddlewareMisconfigured(t *testing.T) {
	w := get(newRouter(InternalAuthMiddleware("")), "anything")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "misconfigured")
}

func TestServiceRateLimitMiddleware(t *testing.T) {
	router := newRouter(ServiceRateLimitMiddleware(0.001, 2))

	assert.Equal(t, http.StatusOK, get(router, "").Code)
	assert.Equal(t, http.StatusOK, get(router, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, "").Code)
}

func TestServiceRateLimitMiddlewareDisabled(t *testing.T) {
	router := newRouter(ServiceRateLimitMiddleware(0, 0))
	for i := 0; i < 50; i++ {
		require.Equal(t, http.StatusOK, get(router, "").Code)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	router := newRouter(RequestLogger(&logger))

	get(router, "")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/ping", line["path"])
	assert.Equal(t, "x=1", line["query"])
	assert.EqualValues(t, 200, line["status"])
}
