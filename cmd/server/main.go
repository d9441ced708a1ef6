package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/charlie/internal/config"
	"github.com/aristath/charlie/internal/modules/allocation"
	"github.com/aristath/charlie/internal/server"
	"github.com/aristath/charlie/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to TOML config file")
	devMode := flag.Bool("dev", false, "disable response compression for local development")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		cfg = config.Default()
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: *devMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("bind_address", cfg.Server.BindAddress).Msg("starting charlie")

	svc := allocation.NewService(log)

	srv := server.New(server.Config{
		BindAddress: cfg.Server.BindAddress,
		Log:         log,
		Allocation:  svc,
		DevMode:     *devMode,
	})

	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
