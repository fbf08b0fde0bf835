package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-tech-support/internal/config"
	"github.com/MKhiriev/go-tech-support/internal/handler"
	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/internal/server"
	"github.com/MKhiriev/go-tech-support/internal/service"
	"github.com/MKhiriev/go-tech-support/internal/store"
	"github.com/MKhiriev/go-tech-support/internal/utils"
	"github.com/MKhiriev/go-tech-support/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var _ Client = (*App)(nil)

type App struct {
	cfg      *config.StructuredConfig
	storages *store.Storages
	services *service.Services
	server   server.Server
	logger   *logger.Logger
}

// NewApp opens the storages and builds the services and the HTTP server
// described by cfg.
func NewApp(ctx context.Context, cfg *config.StructuredConfig, build models.AppBuildInfo, logger *logger.Logger) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	storages, err := store.NewStorages(ctx, cfg, registry, logger)
	if err != nil {
		return nil, fmt.Errorf("create storages: %w", err)
	}

	services, err := service.NewServices(storages, cfg, build, registry, logger)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create services: %w", err), storages.Close())
	}

	handlers, err := handler.NewHandlers(services, cfg, registry, logger)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create handlers: %w", err), storages.Close())
	}

	srv, err := server.NewServer(handlers, cfg.Server, logger)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("create server: %w", err), storages.Close())
	}

	return &App{
		cfg:      cfg,
		storages: storages,
		services: services,
		server:   srv,
		logger:   logger,
	}, nil
}

// Run initializes the session context and serves the local API until ctx is
// cancelled. The session context is torn down and the storages are closed
// on return.
func (a *App) Run(ctx context.Context) error {
	ctx = a.logger.WithContext(ctx)
	sessions := a.services.Sessions

	nav := utils.ParseNavigation(a.cfg.App.LaunchURL)
	sessions.Init(ctx, service.InitOptions{
		RecoveryFlow: nav.RecoveryFlow,
		Admin: models.Credentials{
			Email:    a.cfg.App.AdminEmail,
			Password: a.cfg.App.AdminPassword,
		},
	})
	defer func() {
		sessions.Teardown(ctx)
		if err := a.storages.Close(); err != nil {
			a.logger.Err(err).Str("func", "*App.Run").Msg("failed to close storages")
		}
	}()

	if nav.RecoveryFlow && nav.AccessToken != "" {
		// the recovery session only authorizes the password update
		err := sessions.AdoptSession(ctx, models.Session{AccessToken: nav.AccessToken, RefreshToken: nav.RefreshToken})
		if err != nil {
			a.logger.Err(err).Str("func", "*App.Run").Msg("failed to adopt recovery session")
		}
	}

	return a.server.RunServer(ctx)
}
