package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"partidos/ingestion/internal/cache"
	"partidos/ingestion/internal/client"
	"partidos/ingestion/internal/config"
	"partidos/ingestion/internal/ingest"
	"partidos/ingestion/internal/logging"
	"partidos/ingestion/internal/metrics"
	"partidos/ingestion/internal/repository"
	"partidos/ingestion/internal/scheduler"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()
	logging.Setup(cfg.AppEnv, cfg.LogLevel)

	log.Info().Msg("Starting fixture ingestion worker")
	if err := cfg.RequireProvider(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// Initialize API-Football client
	apiClient := client.NewClient(
		cfg.APIFootballBaseURL,
		cfg.APIFootballHost,
		cfg.APIFootballKey,
		cfg.APIFootballTimeout,
	)
	log.Info().Msg("API-Football client initialized")

	// Initialize database connection
	db, err := repository.NewDatabase(ctx, repository.Config{
		URL:      cfg.DatabaseURL,
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Initialize Redis client
	var reports scheduler.ReportStore
	redisCache, err := cache.NewRedisCache(cache.Config{
		Host:     cfg.RedisHost,
		Port:     strconv.Itoa(cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
	} else {
		defer redisCache.Close()
		apiClient.WithCache(redisCache, cfg.CacheTTLLineups)
		reports = redisCache
		log.Info().Msg("Redis cache connected")
	}

	// Start metrics HTTP server
	if cfg.EnableMetrics {
		go startMetricsServer(cfg.MetricsPort, db)
	}

	// Update uptime and pool metrics
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
				db.ReportPoolStats()
				if count, err := db.Matches.Count(ctx); err == nil {
					metrics.UpdateMatchesStored(count)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	driver := ingest.NewDriver(apiClient, db.Matches)
	sched := scheduler.NewScheduler(scheduler.Options{
		FixtureSyncCron:  cfg.FixtureSyncCron,
		ScoreRefreshCron: cfg.ScoreRefreshCron,
		ReportTTL:        cfg.CacheTTLReport,
	}, driver, reports)

	if cfg.EnableScheduler {
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	// Run initial sync if enabled
	if cfg.InitialSyncEnabled {
		log.Info().Msg("Running initial fixture sync...")
		report := sched.RunSync(ctx)
		log.Info().
			Int("succeeded", report.Succeeded).
			Int("failed", report.Failed).
			Msg("Initial sync finished")
	}

	// Keep running until context is cancelled
	<-ctx.Done()

	if cfg.EnableScheduler {
		sched.Stop()
	}

	log.Info().Msg("Worker shutdown complete")
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(port int, db *repository.Database) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"unhealthy","error":%q}`, err.Error())
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	addr := fmt.Sprintf(":%d", port)
	log.Info().Int("port", port).Msg("Starting metrics server")

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
