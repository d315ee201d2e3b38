package main

import (
	"context"
	"net/http"
	"os"

	"github.com/biddergod/users-service/api/routes"
	"github.com/biddergod/users-service/internal/feedback"
	"github.com/biddergod/users-service/internal/identity"
	"github.com/biddergod/users-service/internal/reputation"
	"github.com/biddergod/users-service/internal/users"
	pkgAuth "github.com/biddergod/users-service/pkg/auth"
	"github.com/biddergod/users-service/pkg/config"
	"github.com/biddergod/users-service/pkg/db"
	"github.com/biddergod/users-service/pkg/logger"
	"github.com/biddergod/users-service/pkg/metrics"
	"github.com/biddergod/users-service/pkg/migrate"
	"github.com/biddergod/users-service/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	reputationMetrics := metrics.NewReputationMetrics(registry)

	userRepo := users.NewRepository(dbClient.DB())
	feedbackRepo := feedback.NewRepository(dbClient.DB())

	verifier := pkgAuth.NewVerifier(cfg.Cognito)

	resolver, err := identity.NewResolver(userRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity resolver", err)
		os.Exit(1)
	}

	userService, err := users.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	reputationService, err := reputation.NewService(userRepo, feedbackRepo, logg, reputationMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create reputation service", err)
		os.Exit(1)
	}

	feedbackService, err := feedback.NewService(feedbackRepo, userRepo, reputationService)
	if err != nil {
		logg.Error(context.Background(), "failed to create feedback service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			verifier,
			resolver,
			userService,
			feedbackService,
			reputationService,
			registry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
