package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/user941211/delivery-sub004/api"
	"github.com/user941211/delivery-sub004/api/routes"
	"github.com/user941211/delivery-sub004/internal/cart"
	"github.com/user941211/delivery-sub004/internal/discounts"
	"github.com/user941211/delivery-sub004/internal/menu"
	"github.com/user941211/delivery-sub004/internal/orders"
	"github.com/user941211/delivery-sub004/internal/restaurants"
	"github.com/user941211/delivery-sub004/internal/upstream"
	"github.com/user941211/delivery-sub004/pkg/config"
	"github.com/user941211/delivery-sub004/pkg/db"
	"github.com/user941211/delivery-sub004/pkg/enums"
	"github.com/user941211/delivery-sub004/pkg/instance"
	"github.com/user941211/delivery-sub004/pkg/logger"
	"github.com/user941211/delivery-sub004/pkg/maps"
	"github.com/user941211/delivery-sub004/pkg/metrics"
	"github.com/user941211/delivery-sub004/pkg/migrate"
	"github.com/user941211/delivery-sub004/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

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
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	pricingMetrics := metrics.NewPricingMetrics(registry)

	guard := upstream.Settings{
		Timeout:     cfg.Upstream.FetchTimeout,
		MaxFailures: cfg.Upstream.BreakerFailures,
		OpenTimeout: cfg.Upstream.BreakerOpenTimeout,
		OnTransition: func(name, to string) {
			pricingMetrics.IncBreakerTransition(name, to)
			logg.Warn(logg.WithFields(context.Background(), map[string]any{
				"upstream": name,
				"state":    to,
			}), "upstream.breaker_transition")
		},
	}

	cachedMenu, err := menu.NewCachedProvider(menu.NewRepository(dbClient.DB()), redisClient, cfg.Upstream.MenuCacheTTL, logg)
	if err != nil {
		logg.Error(ctx, "failed to create menu cache", err)
		os.Exit(1)
	}

	policy, err := enums.ParseReorderQuantityPolicy(cfg.Reorder.QuantityPolicy)
	if err != nil {
		logg.Error(ctx, "invalid reorder quantity policy", err)
		os.Exit(1)
	}

	params := cart.ServiceParams{
		Repo:          cart.NewRepository(dbClient.DB()),
		Tx:            dbClient,
		Menu:          menu.NewGuardedProvider(cachedMenu, guard),
		Discounts:     discounts.NewGuardedCatalog(discounts.NewRepository(dbClient.DB()), guard),
		Restaurants:   restaurants.NewGuardedProvider(restaurants.NewRepository(dbClient.DB(), restaurants.DefaultsFromConfig(cfg.Pricing)), guard),
		Orders:        orders.NewRepository(dbClient.DB()),
		Metrics:       pricingMetrics,
		Logger:        logg,
		ReorderPolicy: policy,
	}
	if cfg.GoogleMaps.APIKey != "" {
		places, err := maps.NewClient(cfg.GoogleMaps.APIKey)
		if err != nil {
			logg.Error(ctx, "failed to create places client", err)
			os.Exit(1)
		}
		params.Places = places
	} else {
		logg.Warn(ctx, "google maps api key not set, place_id destinations disabled")
	}

	cartService, err := cart.NewService(params)
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = instance.GetID()
	}
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(logCtx, "starting api server")

	router := routes.NewRouter(
		cfg,
		logg,
		dbClient,
		redisClient,
		cartService,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	)
	server := api.NewServer(addr, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(logCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(logCtx, "graceful shutdown failed", err)
		}
	}
}
