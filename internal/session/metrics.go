package session

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments — initialized once via InitMetrics().
var (
	activeSessions metric.Int64UpDownCounter
	opsCounter     metric.Int64Counter
	keyEvents      metric.Int64Counter
	errorCounter   metric.Int64Counter
)

// InitMetrics registers the session feature's OTel metric instruments. Call
// this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("session")

	var err error

	activeSessions, err = meter.Int64UpDownCounter("session.active",
		metric.WithDescription("Number of live calculation sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return fmt.Errorf("creating active sessions counter: %w", err)
	}

	opsCounter, err = meter.Int64Counter("session.operations.total",
		metric.WithDescription("Total engine operations dispatched through the session API"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return fmt.Errorf("creating ops counter: %w", err)
	}

	keyEvents, err = meter.Int64Counter("session.key_events.total",
		metric.WithDescription("Total key tokens received on the keys endpoint"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return fmt.Errorf("creating key events counter: %w", err)
	}

	errorCounter, err = meter.Int64Counter("session.errors.total",
		metric.WithDescription("Total session API errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	return nil
}
