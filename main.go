package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/docshub/backend/handlers"
	"github.com/docshub/backend/internal/config"
	"github.com/docshub/backend/internal/database"
	"github.com/docshub/backend/internal/document/handler"
	"github.com/docshub/backend/internal/document/service"
	"github.com/docshub/backend/internal/storage"
	"github.com/docshub/backend/pkg/logger"
	"github.com/docshub/backend/pkg/metrics"
	"github.com/docshub/backend/pkg/middleware"
)

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: database=%v redis=%v", cfg.Database.URL != "", cfg.Redis.Host != "")

	r := gin.New()

	// Lightweight CORS middleware: all origins/methods/headers allowed.
	// (Appropriate only for non-production use — production should use a
	// stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Global middlewares: logging + recovery
	r.Use(gin.Logger(), gin.Recovery())

	// Connect to Redis early so the rate-limiter can use it when configured
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}
	// Optional global rate limiter (per client IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Liveness: must answer even with no database configured
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Docs Hub Backend is running"})
	})

	// Connect to MongoDB with a short bounded attempt. A failure leaves the
	// store disconnected; the process stays up and data endpoints report 503.
	store := database.Connect(context.Background(), cfg.Database.URL, cfg.Database.Name, cfg.Database.Timeout)
	if store.Connected() {
		logger.Infof("Connected to MongoDB database %q", store.DatabaseName())
	}

	// Diagnostic endpoint: reports configuration and connectivity without
	// ever failing the request
	r.GET("/test", func(c *gin.Context) {
		resp := gin.H{
			"backend":           "✅ Running",
			"database":          "❌ Not Available",
			"database_url":      "❌ Not Set",
			"database_name":     "❌ Not Set",
			"connection_status": "Not Connected",
			"collections":       []string{},
		}
		if cfg.Database.URL != "" {
			resp["database_url"] = "✅ Set"
		}
		if cfg.Database.Name != "" {
			resp["database_name"] = "✅ Set"
		}
		if store.Connected() {
			resp["database"] = "✅ Available"
			resp["connection_status"] = "Connected"
			ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.Database.Timeout)
			defer cancel()
			names, err := store.ListCollectionNames(ctx)
			if err != nil {
				resp["database"] = fmt.Sprintf("⚠️  Connected but Error: %.50s", err.Error())
			} else {
				if len(names) > 10 {
					names = names[:10]
				}
				resp["collections"] = names
				resp["database"] = "✅ Connected & Working"
			}
		}
		c.JSON(http.StatusOK, resp)
	})

	// Documents CRUD
	handler.RegisterDocumentRoutes(r, service.New(store))

	// File upload; archives to MinIO when configured
	var archive *storage.UploadArchive
	if mcfg := storage.LoadMinIOConfig(); mcfg.Endpoint != "" {
		archive, err = storage.NewUploadArchive(mcfg)
		if err != nil {
			logger.Warnf("upload archive disabled: %v", err)
			archive = nil
		} else {
			logger.Infof("upload archive enabled (bucket %s)", mcfg.Bucket)
		}
	}
	handlers.RegisterUploadRoutes(r, archive)

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting docs backend on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
