package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prak-gup/SANTOOR/internal/api"
	"github.com/prak-gup/SANTOOR/internal/cache"
	"github.com/prak-gup/SANTOOR/internal/config"
	"github.com/prak-gup/SANTOOR/internal/dataset"
	"github.com/prak-gup/SANTOOR/internal/pkg/distlock"
	"github.com/prak-gup/SANTOOR/internal/pkg/logger"
	"github.com/prak-gup/SANTOOR/internal/repository/memory"
	"github.com/prak-gup/SANTOOR/internal/repository/postgres"
	"github.com/prak-gup/SANTOOR/internal/service/insights"
	"github.com/prak-gup/SANTOOR/internal/warehouse"

	"github.com/redis/go-redis/v9"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.SetLevelName(cfg.Logging.Level)

	// The embedded snapshot is always loaded: it is the serving data in the
	// default setup and the fallback partition map for warehouse refreshes.
	ds, err := dataset.Load()
	if err != nil {
		log.Fatalf("Failed to load embedded dataset: %v", err)
	}
	memRepo := memory.NewFromDataset(ds)

	var repo insights.Repository = memRepo
	if cfg.Postgres.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := postgres.Open(ctx, cfg.Postgres.DatabaseURL)
		cancel()
		if err != nil {
			log.Fatalf("Failed to connect to postgres: %v", err)
		}
		defer db.Close()
		repo = postgres.NewChannelRepo(db)
		logger.Info("serving channel records from postgres")
	} else {
		logger.Info("serving channel records from embedded dataset")
	}

	var runCache *cache.RunCache
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err != nil {
			// Cache is an optimization; run without it rather than refuse to start.
			logger.Warn("redis unreachable, optimization runs will not be cached", "addr", cfg.Redis.Addr, "error", err)
		} else {
			redisClient = client
			runCache = cache.New(client, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
			logger.Info("optimization run cache enabled", "addr", cfg.Redis.Addr, "ttl_seconds", cfg.Redis.TTLSeconds)
		}
	}

	var svcCache insights.RunCache
	if runCache != nil {
		svcCache = runCache
	}
	svc := insights.NewService(repo, svcCache)
	server := api.NewServer(cfg, svc)
	if runCache != nil {
		server.Handlers().SetFlusher(runCache)
	}

	if cfg.Snowflake.Enabled {
		// Refreshes swap into the in-memory repository, so the warehouse
		// integration only applies when serving from the embedded snapshot.
		if cfg.Postgres.Enabled {
			log.Fatal("snowflake refresh requires the embedded dataset repository; disable postgres or snowflake")
		}
		client, err := warehouse.NewClient(cfg.Snowflake)
		if err != nil {
			log.Fatalf("Failed to connect to snowflake: %v", err)
		}
		defer client.Close()
		server.Handlers().SetRefresher(warehouse.NewRefresher(client, memRepo))
		if redisClient != nil {
			server.Handlers().SetRefreshLock(func() distlock.Lock {
				return distlock.NewRedisLock(redisClient, "warehouse-refresh", 5*time.Minute)
			})
		}
		logger.Info("warehouse refresh enabled", "account", cfg.Snowflake.Account, "table", cfg.Snowflake.Table)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
}
