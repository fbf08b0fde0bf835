package handler

import (
	"github.com/MKhiriev/go-tech-support/internal/config"
	"github.com/MKhiriev/go-tech-support/internal/handler/http"
	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

type Handlers struct {
	HTTP *http.Handler
}

// NewHandlers builds the transport handlers enabled by cfg. gatherer backs
// the /metrics endpoint.
func NewHandlers(services *service.Services, cfg *config.StructuredConfig, gatherer prometheus.Gatherer, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.Server.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{HTTP: http.NewHandler(services, cfg, gatherer, logger)}, nil
}
