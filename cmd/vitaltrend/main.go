package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-vitaltrend/config"
	"github.com/goliatone/go-vitaltrend/pkg/di"
)

var configPath = flag.String("config", "", "path to a YAML or JSON config file")

func main() {
	flag.Parse()

	if err := run(); err != nil {
		logrus.StandardLogger().WithField("type", "cmd/vitaltrend").WithError(err).Error("exiting")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger := logrus.StandardLogger()
	config.ConfigureLogger(logger, cfg.Log, os.Stdout)
	log := logger.WithField("type", "cmd/vitaltrend")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	container, err := di.NewContainer(ctx, cfg, di.WithLogger(logger))
	if err != nil {
		return errors.Wrap(err, "failed to build application")
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.WithError(err).Warn("failed to release resources")
		}
	}()

	server := container.NewHTTPServer()
	serveErr := make(chan error, 1)
	go func() {
		log.WithField("address", cfg.HTTP.Address).Info("listening")
		serveErr <- server.Start(cfg.HTTP.Address)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server stopped")
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownGracePeriod)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Errorf("failed to stop the server within %v: %v", cfg.HTTP.ShutdownGracePeriod, err)
	}
	return nil
}
