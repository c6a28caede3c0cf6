// Package main is the entry point of the reputation and lifecycle engine
// service. It wires configuration, persistence, the engine services, the
// HTTP surface, and the background sweeper, and shuts everything down
// gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Apixa25/XHere-Web-sub000/internal/api/engine"
	"github.com/Apixa25/XHere-Web-sub000/internal/cache"
	"github.com/Apixa25/XHere-Web-sub000/internal/config"
	"github.com/Apixa25/XHere-Web-sub000/internal/repository"
	"github.com/Apixa25/XHere-Web-sub000/internal/service/badges"
	"github.com/Apixa25/XHere-Web-sub000/internal/service/credits"
	"github.com/Apixa25/XHere-Web-sub000/internal/service/leaderboard"
	"github.com/Apixa25/XHere-Web-sub000/internal/service/reputation"
	"github.com/Apixa25/XHere-Web-sub000/internal/service/scheduler"
	"github.com/Apixa25/XHere-Web-sub000/internal/service/sweeper"
	"github.com/Apixa25/XHere-Web-sub000/internal/service/votes"
	"github.com/Apixa25/XHere-Web-sub000/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	locationRepo := repository.NewLocationRepository(db)
	userRepo := repository.NewUserRepository(db)

	// The stats cache is optional: without Redis the badge evaluator
	// simply rebuilds each snapshot from the store.
	var statsCache *cache.StatsCache
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient, err = cache.NewClient(&cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		statsCache = cache.NewStatsCache(redisClient, time.Duration(cfg.Redis.StatsTTL)*time.Second)
	}

	catalog := badges.DefaultCatalog()
	if cfg.Badges.CatalogPath != "" {
		catalog, err = badges.LoadCatalog(cfg.Badges.CatalogPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load badge catalog")
		}
	}

	reputationService := reputation.NewService(userRepo, locationRepo, cfg.Engine, log)

	var invalidator votes.StatsInvalidator
	if statsCache != nil {
		invalidator = statsCache
	}
	voteService := votes.NewService(db, locationRepo, reputationService, invalidator, cfg.Engine, log)
	badgeService := badges.NewService(catalog, locationRepo, userRepo, statsCache, log)
	creditsService := credits.NewService(db, locationRepo, userRepo, log)
	leaderboardService := leaderboard.NewService(userRepo, log)

	sweepService := sweeper.NewService(locationRepo, &cfg.Sweeper, log)
	if cfg.Sweeper.Enabled {
		sweepService.Start()
		defer sweepService.Stop()
	}

	schedService := scheduler.NewService(&cfg.Scheduler, badgeService, log)
	if err := schedService.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer schedService.Stop()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	handler := engine.NewHandler(voteService, badgeService, creditsService, leaderboardService, log)
	handler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
}
