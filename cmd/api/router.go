package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dentalcare-backend/internal/shared/middleware"
	"dentalcare-backend/internal/shared/response"
	"dentalcare-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupCatalogRoutes(v1, c)
		setupStockRoutes(v1, c)
		setupAlertRoutes(v1, c)
		setupPurchaseRoutes(v1, c)
		setupTreatmentRoutes(v1, c)
	}

	return router
}

func setupCatalogRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.Config.JWT.Secret)

	products := v1.Group("/products")
	products.Use(auth)
	{
		products.POST("", c.CatalogHandler.CreateProduct)
		products.GET("", c.CatalogHandler.ListProducts)
		products.GET("/export", c.CatalogHandler.ExportProducts)
		products.POST("/import", c.CatalogHandler.ImportProducts)
		products.GET("/:id", c.CatalogHandler.GetProduct)
		products.PUT("/:id", c.CatalogHandler.UpdateProduct)
	}

	suppliers := v1.Group("/suppliers")
	suppliers.Use(auth)
	{
		suppliers.POST("", c.CatalogHandler.CreateSupplier)
		suppliers.GET("", c.CatalogHandler.ListSuppliers)
		suppliers.GET("/:id", c.CatalogHandler.GetSupplier)
	}
}

func setupStockRoutes(v1 *gin.RouterGroup, c *container.Container) {
	stock := v1.Group("/stock")
	stock.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		stock.POST("/movements", c.StockHandler.PostMovement)
		stock.GET("/positions/:product_id/:location_id", c.StockHandler.GetPosition)
		stock.GET("/positions/:product_id/:location_id/movements", c.StockHandler.GetHistory)
	}
}

func setupAlertRoutes(v1 *gin.RouterGroup, c *container.Container) {
	alerts := v1.Group("/alerts")
	alerts.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		alerts.GET("", c.AlertHandler.ListAlerts)
		alerts.GET("/:id", c.AlertHandler.GetAlert)
		alerts.POST("/:id/acknowledge", c.AlertHandler.Acknowledge)
		alerts.POST("/:id/ordering", c.AlertHandler.MarkOrdering)
		alerts.POST("/:id/resolve", c.AlertHandler.Resolve)
	}
}

func setupPurchaseRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.Config.JWT.Secret)

	orders := v1.Group("/orders")
	orders.Use(auth)
	{
		orders.POST("", c.PurchaseHandler.CreateDraft)
		orders.GET("", c.PurchaseHandler.ListOrders)
		orders.GET("/:id", c.PurchaseHandler.GetOrder)
		orders.PUT("/:id", c.PurchaseHandler.UpdateDraft)
		orders.DELETE("/:id", c.PurchaseHandler.Delete)
		orders.POST("/:id/state", c.PurchaseHandler.ChangeState)
		orders.POST("/:id/receive", c.PurchaseHandler.Receive)
		orders.POST("/:id/attachments", c.PurchaseHandler.UploadAttachment)
		orders.GET("/:id/attachments", c.PurchaseHandler.ListAttachments)
	}

	attachments := v1.Group("/attachments")
	attachments.Use(auth)
	{
		attachments.GET("/:id", c.PurchaseHandler.DownloadAttachment)
	}
}

func setupTreatmentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	treatments := v1.Group("/treatments")
	treatments.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		treatments.PUT("/:id/consumption", c.TreatmentHandler.SetProfile)
		treatments.GET("/:id/consumption", c.TreatmentHandler.GetProfile)
		treatments.DELETE("/:id/consumption", c.TreatmentHandler.DeleteProfile)
		treatments.POST("/:id/consume", c.TreatmentHandler.ApplyConsumption)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{
			"service":     c.Config.App.Name,
			"version":     c.Config.App.Version,
			"environment": c.Config.App.Environment,
			"database":    "disabled",
			"cache":       "ok",
		}

		if c.DB != nil {
			if err := c.DB.HealthCheck(checkCtx); err != nil {
				status["database"] = "down"
				response.Error(ctx, http.StatusServiceUnavailable, "Service unhealthy", status)
				return
			}
			status["database"] = "ok"
		}
		if err := c.Cache.Ping(checkCtx); err != nil {
			status["cache"] = "down"
		}

		response.Success(ctx, http.StatusOK, "Service healthy", status)
	}
}
