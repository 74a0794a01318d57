package handlers

import "github.com/gin-gonic/gin"

// RegisterInternalRoutes mounts the pricing API on an /internal group.
// Authentication and rate limiting are applied by the caller.
func RegisterInternalRoutes(internal *gin.RouterGroup) {
	internal.GET("/health", HealthCheck)

	rules := internal.Group("/rules")
	{
		rules.GET("", ListRules)
		rules.POST("", CreateRule)
		rules.POST("/preview", PreviewRule)
		rules.DELETE("/:id", DeactivateRule)
	}

	components := internal.Group("/components")
	{
		components.GET("", ListComponentPrices)
		components.POST("", CreateComponentPrice)
		components.GET("/qualities", ListComponentQualities)
		components.POST("/import", ImportComponentPrices)
		components.DELETE("/:id", DeactivateComponentPrice)
	}

	internal.GET("/tax-rates", ListTaxRates)
	internal.POST("/tax-rates", CreateTaxRate)
	internal.DELETE("/tax-rates/:id", DeactivateTaxRate)

	internal.GET("/categories", ListCategories)
	internal.POST("/categories", CreateCategory)
	internal.DELETE("/categories/:id", DeleteCategory)

	internal.GET("/collections", ListCollections)
	internal.POST("/collections", CreateCollection)
	internal.DELETE("/collections/:id", DeleteCollection)

	sheets := internal.Group("/price-sheets")
	{
		sheets.POST("/calculate", CalculatePriceSheet)
		sheets.POST("/quote", QuotePriceSheet)
		sheets.POST("/recalculate", RecalculatePriceSheets)
		sheets.GET("/current", SearchCurrentPrices)
		sheets.GET("/current/:productKey", GetCurrentPrice)
		sheets.GET("/history/:productKey", GetPriceHistory)
		sheets.GET("/at/:productKey", GetPriceAt)
		sheets.GET("/export", ExportCurrentPrices)
	}

	metalRoutes := internal.Group("/metals")
	{
		metalRoutes.GET("/latest", GetLatestMetalPrice)
		metalRoutes.POST("/refresh", RefreshMetalPrices)
	}

	internal.GET("/recalc/latest", GetLatestRecalcLog)
}
