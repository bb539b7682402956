// Command server runs the displacement statistics API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	geostore "refugeflow/internal/geo/store"
	"refugeflow/internal/platform/config"
	"refugeflow/internal/platform/httpserver"
	"refugeflow/internal/platform/logger"
	"refugeflow/internal/platform/metrics"
	"refugeflow/internal/platform/middleware"
	"refugeflow/internal/platform/postgres"
	platformredis "refugeflow/internal/platform/redis"
	"refugeflow/internal/population/cache"
	"refugeflow/internal/population/handler"
	popmetrics "refugeflow/internal/population/metrics"
	"refugeflow/internal/population/service"
	popstore "refugeflow/internal/population/store"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}

	var geo service.Geo
	var engine popstore.Store
	ping := func(ctx context.Context) error { return nil }

	if db != nil {
		geo = geostore.NewPostgres(db)
		engine = popstore.NewPostgres(db)
		ping = db.PingContext
	} else {
		// No database configured: run on seeded in-memory stores so local
		// development works out of the box.
		log.Warn("DATABASE_URL not set, using in-memory stores with seed data")
		memGeo := geostore.NewInMemory()
		seeded, err := geostore.SeedCountries(ctx, memGeo)
		if err != nil {
			log.Error("seeding countries failed", "error", err)
			os.Exit(1)
		}
		memEngine := popstore.NewInMemory()
		memEngine.LoadCountries(seeded)
		geo = memGeo
		engine = memEngine
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	popMetrics := popmetrics.New()
	engine = cache.New(engine, redisClient, cfg.CacheTTL,
		cache.WithLogger(log),
		cache.WithMetrics(popMetrics),
	)

	stats := service.NewStats(engine, service.WithLogger(log), service.WithMetrics(popMetrics))
	overview := service.NewOverview(engine, service.WithLogger(log), service.WithMetrics(popMetrics))
	report := service.NewCountryReport(geo, engine, service.WithLogger(log), service.WithMetrics(popMetrics))
	bilateral := service.NewBilateral(geo, engine, service.WithLogger(log), service.WithMetrics(popMetrics))

	httpMetrics := metrics.New()
	api := handler.New(stats, overview, report, bilateral,
		handler.WithLogger(log),
		handler.WithPinger(ping),
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.Latency(httpMetrics))
	api.Register(router)
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting refugeflow", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}
	log.Info("stopped")
}
