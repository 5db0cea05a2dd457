// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

// Package otlp exports staffsearch's own logs to an OTLP endpoint by
// bridging zap onto an OpenTelemetry LoggerProvider.
package otlp

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap/zapcore"
)

// DefaultEndpoint is the local OTLP/HTTP collector.
const DefaultEndpoint = "localhost:4318"

// instrumentationName scopes the bridged records.
const instrumentationName = "github.com/elastic/staffsearch"

// Client owns the LoggerProvider that bridged zap entries are emitted to.
type Client struct {
	provider *sdklog.LoggerProvider
	endpoint string
}

// Config holds OTLP client configuration
type Config struct {
	Endpoint    string // OTLP HTTP endpoint (default: localhost:4318)
	ServiceName string // service.name resource attribute
	Insecure    bool   // Use HTTP instead of HTTPS
}

// New creates a new OTLP client exporting over HTTP in batches.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}

	opts := []otlploghttp.Option{
		otlploghttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlploghttp.WithInsecure())
	}

	exporter, err := otlploghttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	return newClient(cfg.Endpoint, cfg.ServiceName, sdklog.NewBatchProcessor(exporter)), nil
}

func newClient(endpoint, serviceName string, processor sdklog.Processor) *Client {
	var attrs []attribute.KeyValue
	if serviceName != "" {
		attrs = append(attrs, semconv.ServiceName(serviceName))
	}
	res := resource.NewWithAttributes(semconv.SchemaURL, attrs...)

	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(processor),
		sdklog.WithResource(res),
	)

	return &Client{
		provider: provider,
		endpoint: endpoint,
	}
}

// Endpoint returns the configured collector endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Core returns a zap core that forwards entries to the provider.
func (c *Client) Core() zapcore.Core {
	return otelzap.NewCore(instrumentationName, otelzap.WithLoggerProvider(c.provider))
}

// Close flushes pending records and shuts down the provider.
func (c *Client) Close(ctx context.Context) error {
	return c.provider.Shutdown(ctx)
}
