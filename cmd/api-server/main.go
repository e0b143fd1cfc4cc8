package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mangabook/database"
	"mangabook/internal/config"
	"mangabook/internal/http-api/handler"
	"mangabook/internal/http-api/middleware"
	"mangabook/internal/http-api/repository"
	"mangabook/internal/http-api/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal("invalid redis url", zap.Error(err))
	}
	if cfg.RedisPassword != "" {
		redisOpts.Password = cfg.RedisPassword
	}
	rdb := redis.NewClient(redisOpts)

	// Repositories and services
	userRepo := repository.NewUserRepository(db)
	listRepo := repository.NewListRepository(db)
	authService := service.NewAuthService(userRepo, listRepo, cfg, logger)
	listService := service.NewListService(listRepo, logger)

	// HTTP surface
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", middleware.TokenHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimit(rdb, logger, "global", cfg.GlobalRateLimit, cfg.GlobalRateWindow))

	r.GET("/health", func(c *gin.Context) {
		dbStatus := "connected"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			dbStatus = "disconnected"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"database":  dbStatus,
		})
	})

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit(rdb, logger, "auth", cfg.AuthRateLimit, cfg.AuthRateWindow))
	handler.NewAuthHandler(authService).RegisterRoutes(authGroup)

	listGroup := api.Group("/list")
	listGroup.Use(middleware.AuthMiddleware(authService))
	handler.NewListHandler(listService).RegisterRoutes(listGroup)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("server starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
