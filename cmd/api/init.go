package main

import (
	"context"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"
)

// initTelemetry starts the OTLP pipelines when enabled and registers the
// application metric instruments against whichever meter provider is active.
func initTelemetry(ctx context.Context, cfg config.Config) (observability.ShutdownFunc, error) {
	shutdown := observability.ShutdownFunc(func(context.Context) error { return nil })

	if cfg.TelemetryEnabled {
		var err error
		shutdown, err = observability.InitTelemetry(ctx, cfg.ServiceName)
		if err != nil {
			return nil, err
		}
	}

	if err := calculator.InitMetrics(); err != nil {
		return nil, err
	}

	return shutdown, nil
}
