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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hongminglow/club-finder/internal/bootstrap"
	"github.com/hongminglow/club-finder/internal/config"
	"github.com/hongminglow/club-finder/internal/http/respond"
	"github.com/hongminglow/club-finder/internal/logger"
	"github.com/hongminglow/club-finder/internal/server"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logg, err := logger.New(logger.Config{
		Debug:     cfg.Log.Debug,
		LogToFile: cfg.Log.ToFile,
		LogsDir:   cfg.Log.Directory,
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()
	respond.SetLogger(logg.Named("respond"))

	ctx := context.Background()
	deps, err := bootstrap.Open(ctx, cfg, logg)
	if err != nil {
		logg.Fatal("startup failed", zap.Error(err))
	}
	defer deps.Close()

	srv := server.New(cfg, deps.Client, logg)

	go func() {
		logg.Info("club finder listening", zap.String("addr", cfg.HTTPAddress()))
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("http server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logg.Warn("graceful shutdown error", zap.Error(err))
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
