package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/bro-exchange/bro-exchange/internal/config"
	"github.com/bro-exchange/bro-exchange/internal/status"
	"github.com/bro-exchange/bro-exchange/internal/telemetry"
	"github.com/bro-exchange/bro-exchange/pkg/connector"
)

const shutdownTimeout = 5 * time.Second

// environment holds what the commands share: configuration, telemetry and the record store
type environment struct {
	cfg       *config.Config
	telemetry *telemetry.Telemetry
	records   status.RecordPersistence
}

// setup loads the configuration from --config, the environment and bound flags
func setup(ctx context.Context) (*environment, error) {
	v := viper.GetViper()
	config.ConfigureViper(v)

	opts := []config.Option{config.WithViper(v)}
	if path := v.GetString("config"); path != "" {
		opts = append(opts, config.WithConfigPath(path))
	}
	cfg, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	tel, err := telemetry.New(ctx, telemetry.WithTelemetryConfig(cfg.Telemetry))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	slog.Debug("Configuration loaded",
		"api", cfg.Portal.API,
		"demo", cfg.Portal.Demo,
		"state_dir", cfg.GetStateDir())

	return &environment{
		cfg:       cfg,
		telemetry: tel,
		records:   status.NewFileRecordPersistence(cfg.GetStateDir()),
	}, nil
}

// portal builds the bronhouderportaal client from the portal section
func (e *environment) portal() (*connector.DefaultClient, error) {
	password, err := e.cfg.Portal.GetPassword()
	if err != nil {
		return nil, err
	}
	metrics, err := telemetry.NewPortalMetrics(e.telemetry.MeterProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to create portal metrics: %w", err)
	}

	p := e.cfg.Portal
	opts := []connector.Option{
		connector.WithCredentials(p.User, password),
		connector.WithAPIVersion(connector.APIVersion(p.API)),
		connector.WithProjectID(p.ProjectID),
		connector.WithDemo(p.Demo),
		connector.WithTimeout(p.GetTimeout()),
		connector.WithRetry(uint(p.GetRetries()), connector.DefaultInitialInterval), //nolint:gosec // validated >= 1
		connector.WithTracer(e.telemetry.Tracer()),
		connector.WithMetrics(metrics),
	}
	if p.BaseURL != "" {
		opts = append(opts, connector.WithBaseURL(p.BaseURL))
	}
	return connector.New(opts...)
}

// close flushes telemetry
func (e *environment) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.telemetry.Shutdown(ctx); err != nil {
		slog.Warn("Failed to shutdown telemetry", "error", err)
	}
}
