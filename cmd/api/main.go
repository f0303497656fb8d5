package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lexcrm/crm-system/internal/api"
	"github.com/lexcrm/crm-system/internal/core/service"
	"github.com/lexcrm/crm-system/internal/infrastructure/config"
	"github.com/lexcrm/crm-system/internal/infrastructure/db/postgres"
	redisinfra "github.com/lexcrm/crm-system/internal/infrastructure/db/redis"
	"github.com/lexcrm/crm-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           CRM Deals API
// @version         1.0
// @description     Backend for a legal-services CRM: role-scoped accounts and deal tracking.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token obtained from POST /login

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	db, err := postgres.Open(ctx, postgres.Config{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}

	rdb, err := connectRedis(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	if rdb != nil {
		defer rdb.Close()
	} else {
		log.Warn().Msg("redis not configured, login throttling disabled")
	}

	tokens := service.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	e := api.NewRouter(db, rdb, tokens, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func connectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}
	return redisinfra.Connect(ctx, redisinfra.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
}
