// cmd/bookbot/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookbot/internal/api"
	"bookbot/internal/bot"
	"bookbot/internal/catalog"
	"bookbot/internal/common/config"
	"bookbot/internal/common/database"
	"bookbot/internal/common/logger"
	"bookbot/internal/common/observability"
	"bookbot/internal/genai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting bookbot", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := connectPostgres(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("postgres connection failed", nil)
		os.Exit(1)
	}
	defer pg.Close()

	cache, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		log.WithError(err).Error("redis client failed", nil)
		os.Exit(1)
	}
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		// Redis only backs the summary cache, so a missing instance
		// degrades to cache-less operation instead of refusing to start.
		log.WithError(err).Warn("redis unreachable, summaries will not be cached", nil)
	}

	var gen bot.Generator = genai.NewDisabled()
	if cfg.GenAI.Enabled() {
		client, err := genai.NewClient(ctx, cfg.GenAI, log)
		if err != nil {
			log.WithError(err).Error("gemini client failed", nil)
			os.Exit(1)
		}
		defer client.Close()
		gen = client
	} else {
		log.Warn("GENAI_API_KEY not set, running with local fallbacks only", nil)
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	store := catalog.NewStore(pg.GetDB(), cfg.Database.Postgres.PriceColumn, log)
	engine := bot.NewEngine(
		store,
		gen,
		cache,
		cfg.Engine,
		time.Duration(cfg.Database.Redis.SummaryTTL)*time.Second,
		log,
		obs,
	)

	server := api.NewServer(engine, log, map[string]api.Pinger{
		"postgres": pg,
		"redis":    cache,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		log.Info("http server listening", map[string]interface{}{"address": cfg.Server.Address})
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("http server failed", nil)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown incomplete", nil)
	}
}

// connectPostgres retries the initial connection with backoff; the database
// regularly comes up a few seconds after the service in compose setups.
func connectPostgres(ctx context.Context, cfg *config.Config, log logger.Logger) (*database.PostgresClient, error) {
	var client *database.PostgresClient
	var err error

	backoff := time.Second
	for attempt := 1; attempt <= 5; attempt++ {
		client, err = database.NewPostgres(cfg.Database.Postgres)
		if err == nil {
			if err = client.Ping(ctx); err == nil {
				return client, nil
			}
			client.Close()
		}

		log.Warn("postgres not ready", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, err
}
