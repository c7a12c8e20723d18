package main

import (
	"context"

	"exactcalc/internal/calculator"
	"exactcalc/internal/observability"
	"exactcalc/internal/session"
)

// initMetrics initialises the metric provider and every feature package's
// metric instruments. Add new feature InitMetrics calls here as the project
// grows.
func initMetrics(ctx context.Context) (func(context.Context) error, error) {
	shutdown, err := observability.InitMetrics(ctx)
	if err != nil {
		return nil, err
	}

	if err := calculator.InitMetrics(); err != nil {
		return nil, err
	}
	if err := session.InitMetrics(); err != nil {
		return nil, err
	}

	return shutdown, nil
}
