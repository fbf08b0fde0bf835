package service

import (
	"github.com/MKhiriev/go-tech-support/internal/config"
	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/internal/store"
	"github.com/MKhiriev/go-tech-support/models"
	"github.com/prometheus/client_golang/prometheus"
)

type Services struct {
	Sessions SessionService
	Catalog  *Catalog
	Users    UserService
	Files    FileService
	AppInfo  AppInfoService
	Metrics  *Metrics
}

// NewServices wires the services over storages. Metrics are registered with
// reg.
func NewServices(storages *store.Storages, cfg *config.StructuredConfig, build models.AppBuildInfo, reg prometheus.Registerer, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, build, logger)
	if err != nil {
		return nil, err
	}

	metrics := NewMetrics(reg)
	catalog := NewCatalog(storages.Remote.Rows, storages.Mirror, metrics)

	var seeder sampleSeeder
	if !cfg.App.SkipSamples {
		seeder = catalog
	}

	return &Services{
		Sessions: NewSessionContext(storages.Remote, seeder, cfg.ResetPasswordURL()),
		Catalog:  catalog,
		Users:    NewUserService(storages.Remote.Rows, logger),
		Files:    NewFileService(storages.Remote.Blobs),
		AppInfo:  appInfo,
		Metrics:  metrics,
	}, nil
}
