package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pzfresh/pzfresh-backend/api/routes"
	"github.com/pzfresh/pzfresh-backend/internal/catalog"
	"github.com/pzfresh/pzfresh-backend/internal/directory"
	"github.com/pzfresh/pzfresh-backend/internal/negotiation"
	"github.com/pzfresh/pzfresh-backend/internal/orders"
	"github.com/pzfresh/pzfresh-backend/internal/sourcing"
	"github.com/pzfresh/pzfresh-backend/pkg/config"
	"github.com/pzfresh/pzfresh-backend/pkg/db"
	"github.com/pzfresh/pzfresh-backend/pkg/logger"
	"github.com/pzfresh/pzfresh-backend/pkg/metrics"
	"github.com/pzfresh/pzfresh-backend/pkg/migrate"
	"github.com/pzfresh/pzfresh-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
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
	marketplaceMetrics := metrics.NewMarketplaceMetrics(registry)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	directoryRepo := directory.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	negotiationRepo := negotiation.NewRepository(dbClient.DB())

	directoryService, err := directory.NewService(directoryRepo, cfg.Commercial)
	if err != nil {
		logg.Error(context.Background(), "failed to create directory service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo, dbClient, directoryRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo, dbClient, catalogRepo, marketplaceMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	negotiationService, err := negotiation.NewService(
		negotiationRepo,
		dbClient,
		directoryRepo,
		cfg.Commercial,
		negotiation.NewHeuristicScorer(),
		marketplaceMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create negotiation service", err)
		os.Exit(1)
	}

	sourcingService, err := sourcing.NewService(catalogRepo, directoryRepo, marketplaceMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create sourcing service", err)
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
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DBPinger:    dbClient,
			RedisPinger: redisClient,
			IdemStore:   redisClient,
			Gatherer:    registry,

			Catalog:     catalogService,
			Directory:   directoryService,
			Orders:      ordersService,
			Negotiation: negotiationService,
			Sourcing:    sourcingService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
