package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mesbrj/teams-api/internal/config"
	"github.com/mesbrj/teams-api/internal/handler"
	"github.com/mesbrj/teams-api/internal/logger"
	"github.com/mesbrj/teams-api/internal/repository"
	"github.com/mesbrj/teams-api/internal/router"
	"github.com/mesbrj/teams-api/internal/server"
	"github.com/mesbrj/teams-api/internal/service"
)

const DefaultContextTimeout = 30 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	appLogger := logger.NewLoggerWithService(cfg.Observability, loggerService)
	if err := run(cfg, &appLogger, loggerService); err != nil {
		appLogger.Error().Err(err).Msg("server exited with error")
		loggerService.Shutdown()
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLogger *zerolog.Logger, loggerService *logger.LoggerService) error {
	srv, err := server.New(cfg, appLogger, loggerService)
	if err != nil {
		return err
	}

	repos := repository.NewRepositories(srv)
	services, err := service.NewService(srv, repos)
	if err != nil {
		return err
	}
	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			_ = srv.Shutdown(context.Background())
			return err
		}
	case <-ctx.Done():
		appLogger.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	appLogger.Info().Msg("server exited properly")
	return nil
}
