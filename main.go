package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"contract-claims-api/config"
	"contract-claims-api/filestore"
	"contract-claims-api/handlers"
	"contract-claims-api/middleware"
	"contract-claims-api/reports"
	"contract-claims-api/routes"
	"contract-claims-api/services"
	"contract-claims-api/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	// Set Gin mode
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	db, err := config.InitDB(cfg, logger)
	if err != nil {
		logger.Error("database init failed", slog.Any("error", err))
		os.Exit(1)
	}

	files, err := newFileStore(context.Background(), cfg)
	if err != nil {
		logger.Error("file store init failed", slog.Any("error", err))
		os.Exit(1)
	}

	exporter, err := reports.NewExporter(cfg.ReportLocale, cfg.ReportCurrency)
	if err != nil {
		logger.Error("report exporter init failed", slog.Any("error", err))
		os.Exit(1)
	}

	users := store.NewUserStore(db)
	claims := services.NewClaimService(users, store.NewClaimStore(db), files, logger)
	h := handlers.New(handlers.Deps{
		Claims:    claims,
		Users:     users,
		Exporter:  exporter,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		Logger:    logger,
	})

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.Metrics())

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Contract Monthly Claim API",
			"version": "1.0.0",
		})
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Contract Monthly Claim API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"metrics": "/metrics",
			"roles":   []string{"Lecturer", "Programme Coordinator", "Academic Manager", "HR"},
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.SetupRoutes(r, h, cfg.JWTSecret, users)

	logger.Info("server starting",
		slog.String("port", cfg.Port),
		slog.String("storage", cfg.StorageBackend))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func newFileStore(ctx context.Context, cfg *config.Config) (services.FileStore, error) {
	if cfg.StorageBackend == "s3" {
		return filestore.NewS3FromEnv(ctx, cfg.AWSRegion, cfg.AWSEndpointURL, cfg.S3Bucket, cfg.S3Prefix)
	}
	return filestore.NewLocal(cfg.UploadDir)
}
