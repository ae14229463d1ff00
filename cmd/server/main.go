package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bykerz-iot-edge/internal/backend"
	"bykerz-iot-edge/internal/config"
	"bykerz-iot-edge/internal/database"
	"bykerz-iot-edge/internal/handler"
	"bykerz-iot-edge/internal/middleware"
	"bykerz-iot-edge/internal/repository"
	"bykerz-iot-edge/internal/service"

	"github.com/gin-gonic/gin"
)

// bootstrapCreatedAt is the fixed creation timestamp of the well-known test
// device; EnsureBootstrapDevice keeps it stable across restarts.
var bootstrapCreatedAt = time.Date(2025, time.October, 2, 10, 0, 0, 0, time.UTC)

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()
	log.Println("Configuration loaded successfully")

	// 2. Initialize database connection and schema
	db := database.Connect(cfg)
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 3. Initialize repositories
	deviceRepo := repository.NewDeviceRepo(db)
	metricRepo := repository.NewVehicleMetricRepo(db)

	// 4. Ensure the local test device exists before serving any request
	if err := deviceRepo.EnsureBootstrapDevice(cfg.Bootstrap.DeviceID, cfg.Bootstrap.Token, bootstrapCreatedAt); err != nil {
		log.Fatalf("Failed to ensure bootstrap device: %v", err)
	}

	// 5. Initialize backend client and services
	backendClient := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	authService := service.NewAuthService(deviceRepo)
	deviceService := service.NewDeviceService(deviceRepo, backendClient)
	metricService := service.NewMetricService(metricRepo, backendClient, cfg.Backend.ForwardMetrics)

	// 6. Setup Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// 7. Setup Gin router
	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(cfg))

	// 8. Register handlers and routes
	deviceHandler := handler.NewDeviceHandler(deviceService)
	metricHandler := handler.NewMetricHandler(metricService)
	handler.RegisterRoutes(r, authService, deviceHandler, metricHandler)

	// 9. Start server with graceful shutdown
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := r.Run(":" + cfg.Server.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	log.Println("Server exited")
}
