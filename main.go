package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"marketplace-server/internal/config"
	"marketplace-server/internal/middleware"
	"marketplace-server/internal/models"
	"marketplace-server/internal/routes"
	"marketplace-server/pkg/cache"
	"marketplace-server/pkg/logger"
)

func main() {
	// A missing .env is fine; the environment may already be set
	envErr := godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Error loading config: %v", err))
	}

	logger.InitStructured(cfg.Environment, cfg.LogLevel)
	log := logger.GetLogger()
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		log.Warn().Err(envErr).Msg("failed to load .env file")
	}

	db, err := models.InitDB(models.DatabaseConfig{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		Debug:           cfg.IsDevelopment(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	var (
		participantCache cache.Service
		redisClient      *redis.Client
	)
	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err = cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, partner cache disabled")
			redisClient = nil
		} else {
			participantCache = cache.NewService(redisClient)
		}
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	router.Use(cors.New(corsConfig))

	routes.SetupRoutes(router, db, participantCache, cfg)

	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("Server running")
	if err := router.Run(serverAddr); err != nil {
		// Fatal exits without running defers
		if redisClient != nil {
			_ = redisClient.Close()
		}
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
