package handler

import (
	"net/http"

	"bykerz-iot-edge/internal/middleware"
	"bykerz-iot-edge/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the edge API surface onto the engine.
func RegisterRoutes(r *gin.Engine, authService *service.AuthService, deviceHandler *DeviceHandler, metricHandler *MetricHandler) {
	// Liveness / about
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Bykerz IoT Edge Service - Bykerz Application")
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "bykerz-iot-edge",
		})
	})

	api := r.Group("/api/v1")

	// Device authentication (public: these endpoints mint the credential)
	auth := api.Group("/devices/authentication")
	{
		auth.POST("/register", deviceHandler.Register)
		auth.POST("/validate", deviceHandler.Validate)
	}

	// Telemetry ingestion (device-authenticated)
	api.POST("/metrics", middleware.DeviceAuth(authService), metricHandler.Create)
}
