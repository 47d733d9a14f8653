package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/vovakirdan/relaychat-server/internal/app"
	"github.com/vovakirdan/relaychat-server/internal/config"
	"github.com/vovakirdan/relaychat-server/internal/log"
)

func main() {
	var (
		configPath string
		addr       string
		level      string
	)
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	flag.StringVar(&level, "log-level", "", "log level (overrides config)")
	flag.Parse()

	logger := log.New(os.Stdout, "info")

	cfg, path, err := config.Load(logger, configPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", path).Msg("load config")
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if level != "" {
		cfg.LogLevel = level
	}
	logger = log.New(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("addr", cfg.Addr).Str("config", path).Msg("starting relaychat server")
	if err := app.New(cfg, logger).Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
	logger.Info().Msg("server stopped")
}
