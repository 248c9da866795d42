package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Tyrowin/lanchat/internal/config"
	"github.com/Tyrowin/lanchat/internal/server"
	"github.com/Tyrowin/lanchat/internal/web"
)

func main() {
	cfg := config.Load()
	logger := setupLogger(cfg.LogLevel)

	hub := server.NewHub(cfg, logger)
	chatServer := server.CreateServer(cfg.Port, server.SetupRoutes(hub))

	assets := web.DefaultAssets()
	if cfg.StaticDir != "" {
		assets = os.DirFS(cfg.StaticDir)
	}
	site := web.New(assets, logger)
	webServer := server.CreateServer(cfg.WebPort, site.Routes())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 2)
	go func() { errs <- server.StartServer(chatServer) }()
	go func() { errs <- server.StartServer(webServer) }()

	logger.Info("LAN chat started",
		"chat", cfg.Port,
		"web", cfg.WebPort,
		"instance", site.Instance().String())

	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errs:
		if err != nil {
			logger.Error("server stopped", "error", err)
			exitCode = 1
		}
	}

	if err := hub.Shutdown(cfg.ShutdownTimeout); err != nil {
		logger.Warn("hub shutdown", "error", err)
	}
	_ = server.ShutdownServer(chatServer, cfg.ShutdownTimeout)
	_ = server.ShutdownServer(webServer, cfg.ShutdownTimeout)

	stop()
	os.Exit(exitCode)
}

func setupLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
