package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"textcleanup/internal/config"
	"textcleanup/internal/customdict"
	"textcleanup/internal/logging"
	"textcleanup/internal/wordsource"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewJSONLogger(os.Stderr, logLevel())
	cfg := config.FromEnv()
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration rejected", "error", err)
		os.Exit(2)
	}

	start := time.Now()
	base, err := wordsource.LoadDictionary(ctx, cfg.DictionaryPath, cfg.S3)
	if err != nil {
		logger.LogLoad(ctx, cfg.DictionaryPath, 0, time.Since(start), err)
		os.Exit(1)
	}
	logger.LogLoad(ctx, cfg.DictionaryPath, base.Len(), time.Since(start), nil)

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer client.Close()

	srv := newServer(ctx, base, customdict.New(client), &cfg, logger)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.routes(newLimiter(cfg.RateLimit)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.HTTPAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func logLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
		return slog.LevelInfo
	}
	return level
}
