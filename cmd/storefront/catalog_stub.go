package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Storefront/internal/catalogapi"
	"Storefront/pkg/kit"
)

var (
	stubPort  string
	stubDelay time.Duration
)

var catalogStubCmd = &cobra.Command{
	Use:   "catalog-stub",
	Short: "Serve a local catalog API seeded with fixture products",
	RunE:  runCatalogStub,
}

func init() {
	catalogStubCmd.Flags().StringVar(&stubPort, "port", "8082", "listen port")
	catalogStubCmd.Flags().DurationVar(&stubDelay, "delay", 0, "hold each catalog response back this long")
}

func runCatalogStub(cmd *cobra.Command, _ []string) error {
	const service = "catalog-stub"
	log := kit.NewLogger(service, "info")
	defer func() { _ = log.Sync() }()

	store, err := catalogapi.NewFixtureStore()
	if err != nil {
		return err
	}

	s := &catalogapi.Server{Store: store, Orders: catalogapi.NewOrderStore(), Log: log}
	h := catalogapi.NewHandler(s, catalogapi.HTTPDeps{
		Log:      log,
		Service:  service,
		Registry: prometheus.NewRegistry(),
		Delay:    stubDelay,
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log.Info("catalog stub starting", zap.String("port", stubPort))
	return kit.RunHTTPServer(ctx, ":"+stubPort, h, log)
}
