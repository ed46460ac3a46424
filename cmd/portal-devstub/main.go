package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/campuslink/portal/internal/devstub"
	"github.com/campuslink/portal/internal/devstub/store"
	"github.com/campuslink/portal/internal/infrastructure/config"
	mongodb "github.com/campuslink/portal/internal/infrastructure/db/mongo"
	redisdb "github.com/campuslink/portal/internal/infrastructure/db/redis"
	"github.com/campuslink/portal/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.LoadStub()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := devstub.MemoryDeps()

	if cfg.Mongo.URI != "" {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		deps.Mongo = db
		deps.Users = store.NewMongoUsers(db)
		deps.Resources = store.NewMongoResources(db)
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongo-backed stores")
	}

	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer func() { _ = rdb.Close() }()
		deps.Redis = rdb
		deps.OTPs = store.NewRedisOTPs(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis-backed otp store")
	}

	e := devstub.NewRouter(cfg, deps, log)

	go func() {
		log.Info().Str("port", cfg.Port).Bool("dev_mode", cfg.DevMode()).Msg("portal dev stub listening")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
