package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Hawk777/abeep/internal/config"
	"github.com/Hawk777/abeep/internal/handler"
	"github.com/Hawk777/abeep/internal/logging"
	"github.com/Hawk777/abeep/internal/player"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("abeepd starting",
		zap.String("listen", cfg.ListenAddr),
		zap.String("backend", cfg.Backend),
		zap.String("device", cfg.Device),
		zap.Int("sampleRate", cfg.SampleRate),
		zap.Int("periodSize", cfg.PeriodSize),
		zap.String("variant", cfg.Variant),
		zap.Bool("auth", cfg.APIKey != ""),
		zap.Int("maxDurationMs", cfg.MaxDurationMs),
		zap.Duration("writeTimeout", cfg.WriteTimeout()),
	)

	p := player.New(cfg, logger)
	h := handler.NewHandlers(p, cfg.SampleRate, logger)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler.NewRouter(h, cfg.APIKey, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.WriteTimeout(),
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := p.Shutdown(ctx); err != nil {
		logger.Warn("player shutdown", zap.Error(err))
	}
}
