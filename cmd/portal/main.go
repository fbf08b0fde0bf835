package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-tech-support/internal/client"
	"github.com/MKhiriev/go-tech-support/internal/config"
	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(build)

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		logger.NewLogger("portal").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewFileLogger("portal", cfg.App.LogFile)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	app, err := client.NewApp(ctx, cfg, build, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init portal app error")
	}

	if err = app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("portal run error")
	}
}

func printBuildInfo(build models.AppBuildInfo) {
	fmt.Println("Build " + build.String())
}
