package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"infinite-experiment/calllist/internal/api"
	"infinite-experiment/calllist/internal/auth"
	"infinite-experiment/calllist/internal/common"
	"infinite-experiment/calllist/internal/config"
	"infinite-experiment/calllist/internal/db"
	"infinite-experiment/calllist/internal/jobs"
	"infinite-experiment/calllist/internal/logging"
	"infinite-experiment/calllist/internal/metrics"
	"infinite-experiment/calllist/internal/middleware"
	"infinite-experiment/calllist/internal/routes"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.App.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Call list service starting up",
		"environment", cfg.App.Env,
		"db_driver", cfg.DB.Driver,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	orm, err := db.InitORM(cfg.DB.Driver, cfg.DSN())
	if err != nil {
		logging.Fatal("Failed to open store", "error", err.Error())
	}
	read, err := db.ReadDB(orm, cfg.DB.Driver, cfg.DSN())
	if err != nil {
		logging.Fatal("Failed to open read connection", "error", err.Error())
	}

	var (
		cache       common.CacheInterface
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled {
		redisClient, err = common.NewRedisClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password)
		if err != nil {
			logging.Fatal("Failed to connect to Redis", "error", err.Error())
		}
		cache = common.NewRedisCacheService(redisClient)
		logging.Info("Using Redis cache")
	} else {
		cache = common.NewCacheService(cfg.Cache.LedgerTTL, 10*time.Minute)
		logging.Info("Using in-memory cache")
	}
	defer cache.Close()

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)
	deps := api.InitDependencies(orm, read, cache, redisClient, metricsReg, nil, api.Options{
		Region:         cfg.App.Region,
		LedgerTTL:      cfg.Cache.LedgerTTL,
		ImportMaxBytes: cfg.Import.MaxBytes,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler, err := jobs.InitializeJobs(ctx, cfg.Jobs.PruneSchedule, jobs.NewPruneJob(deps.Services.Calls, metricsReg, nil))
	if err != nil {
		logging.Fatal("Failed to schedule jobs", "error", err.Error())
	}
	defer scheduler.Stop()

	upSince := time.Now()
	router := routes.RegisterRoutes(deps, routes.RouterOptions{
		Verifier:  auth.NewTokenVerifier(cfg.Auth.SessionSecret),
		Limiter:   middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Scheduler: scheduler,
		UpSince:   upSince,
	})

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "port", cfg.HTTP.Port, "environment", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed", "error", err.Error())
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err)
	}
}
