package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Storefront/internal/catalog"
	"Storefront/internal/config"
	"Storefront/internal/storage"
	"Storefront/internal/storefront"
	"Storefront/pkg/kit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the storefront pages",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := kit.NewLogger(cfg.Service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	backend, err := storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close() }()

	reg := prometheus.NewRegistry()
	metrics := kit.NewMetrics(reg)

	client := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)
	client.Log = log
	client.Metrics = metrics

	h, err := storefront.NewHandler(storefront.Deps{
		Catalog:             client,
		Storage:             storage.NewAdapter(backend, log),
		SessionSecret:       cfg.Session.Secret,
		SessionTTL:          cfg.Session.TTL,
		SecureCookies:       cfg.Session.Secure,
		CartKey:             cfg.Cart.Key,
		Categories:          cfg.Categories,
		CheckoutLimitPerMin: cfg.Checkout.LimitPerMin,
		TrustedProxies:      cfg.Checkout.TrustedProxies,
	}, storefront.HTTPDeps{
		Log:              log,
		Service:          cfg.Service,
		Registry:         reg,
		Metrics:          metrics,
		MetricsEnabled:   cfg.Metrics.Enabled,
		MetricsTokenHash: cfg.Metrics.TokenHash,
	})
	if err != nil {
		return err
	}

	if cfg.Session.Secret == config.DevSessionSecret {
		log.Warn("session secret is the development default; set STOREFRONT_SESSION_SECRET")
	}

	log.Info("storefront starting",
		zap.String("port", cfg.Port),
		zap.String("catalog", cfg.Catalog.BaseURL),
		zap.String("storage", cfg.Storage.Driver),
	)
	return kit.RunHTTPServer(ctx, ":"+cfg.Port, h, log)
}
