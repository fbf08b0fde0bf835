package http

import (
	"github.com/MKhiriev/go-tech-support/internal/config"
	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/internal/service"
	"github.com/MKhiriev/go-tech-support/internal/validators"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

type Handler struct {
	services  *service.Services
	validator validators.Validator
	gatherer  prometheus.Gatherer

	authLimiter *rate.Limiter
	// filesDir is served under /files/ when blobs live on the local disk.
	filesDir string

	logger *logger.Logger
}

// NewHandler builds the API handler. gatherer backs /metrics; nil disables
// the endpoint.
func NewHandler(services *service.Services, cfg *config.StructuredConfig, gatherer prometheus.Gatherer, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")

	h := &Handler{
		services:    services,
		validator:   validators.NewPortalValidator(),
		gatherer:    gatherer,
		authLimiter: rate.NewLimiter(rate.Limit(cfg.Server.AuthRateLimit), cfg.Server.AuthRateBurst),
		logger:      logger,
	}
	if cfg.Remote.Mode == config.RemoteModePostgres {
		h.filesDir = cfg.Remote.FilesDir
	}

	return h
}
