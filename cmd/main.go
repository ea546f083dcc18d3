package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"rental-service/internal/handler"
	mid "rental-service/internal/middleware"
	"rental-service/internal/service"
	"rental-service/pkg/cep"
	"rental-service/pkg/config"
	"rental-service/pkg/database"
	"rental-service/pkg/jwtutil"
	"rental-service/pkg/logger"
	"rental-service/prometheus"
)

func main() {
	// Load .env file; missing files are fine, env vars may be set
	// directly in production.
	_ = godotenv.Load()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting rental-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	err = database.InitDB(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Wire handlers to their collaborators
	handler.InitContractHandler(service.NewContractService(
		database.GetDB(), log, appConfig.Rental.ContractIDPrefix))
	handler.InitPackageHandler(appConfig.Rental.BufferDays)
	handler.InitClientHandler(cep.NewClient(&appConfig.CEP, log))

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Inventory API routes
	itemAPI := e.Group("/api/items", mid.AuthMiddleware)
	itemAPI.GET("", handler.ListItems)
	itemAPI.GET("/inventory", handler.ListInventory)
	itemAPI.GET("/:id", handler.GetItem)
	itemAPI.POST("", handler.CreateItem)
	itemAPI.PUT("/group", handler.UpdateProductGroup)
	itemAPI.POST("/:id/quantity", handler.AdjustItemQuantity)
	itemAPI.POST("/:id/check-in", handler.CheckInItem)
	itemAPI.DELETE("/:id", handler.DeleteItem)

	// Availability API routes
	availabilityAPI := e.Group("/api/availability", mid.AuthMiddleware)
	availabilityAPI.GET("", handler.QueryAvailability)
	availabilityAPI.POST("/allocate", handler.Allocate)

	// Contract API routes
	contractAPI := e.Group("/api/contracts", mid.AuthMiddleware)
	contractAPI.GET("", handler.ListContracts)
	contractAPI.GET("/:id", handler.GetContract)
	contractAPI.POST("", handler.CreateContract)
	contractAPI.PUT("/:id/items", handler.UpdateContractItems)
	contractAPI.POST("/:id/activate", handler.ActivateContract)
	contractAPI.POST("/:id/cancel", handler.CancelContract)
	contractAPI.POST("/:id/finish", handler.FinishContract)
	contractAPI.POST("/:id/sign", handler.SignContract)
	contractAPI.POST("/:id/payments", handler.RecordContractPayment)

	// Package API routes
	packageAPI := e.Group("/api/packages", mid.AuthMiddleware)
	packageAPI.GET("", handler.ListPackages)
	packageAPI.GET("/:id", handler.GetPackage)
	packageAPI.POST("", handler.CreatePackage)
	packageAPI.PUT("/:id", handler.UpdatePackage)
	packageAPI.DELETE("/:id", handler.DeletePackage)
	packageAPI.POST("/:id/fulfill", handler.FulfillPackage)
	packageAPI.POST("/:id/resync", handler.ResyncPackage)

	// Client API routes
	clientAPI := e.Group("/api/clients", mid.AuthMiddleware)
	clientAPI.GET("", handler.ListClients)
	clientAPI.GET("/:id", handler.GetClient)
	clientAPI.POST("", handler.CreateClient)
	clientAPI.PUT("/:id", handler.UpdateClient)
	clientAPI.DELETE("/:id", handler.DeleteClient)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
