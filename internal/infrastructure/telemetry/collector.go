// Package telemetry ships traces, metrics, logs and profiles of the
// membership backend to an OpenTelemetry collector and Pyroscope.
package telemetry

import (
	"cmp"
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

const (
	defaultServiceVersion = "0.1.0"
	shutdownTimeout       = 10 * time.Second
)

// Collector is the OTLP gRPC endpoint every signal goes to, together with
// the service identity stamped on the exported resource.
type Collector struct {
	Endpoint       string
	Insecure       bool
	ServiceName    string
	ServiceVersion string
}

func (c Collector) resource() (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(c.ServiceName),
			semconv.ServiceVersion(cmp.Or(c.ServiceVersion, defaultServiceVersion)),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to describe %s resource: %w", c.ServiceName, err)
	}
	return res, nil
}

// flush gives a provider shutdownTimeout to push what it still buffers
func flush(ctx context.Context, signal string, shutdown func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		return fmt.Errorf("failed to flush %s: %w", signal, err)
	}
	return nil
}
