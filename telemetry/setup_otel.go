// Copyright 2026 The Evalkit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package telemetry

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"

	"github.com/converseml/evalkit/internal/version"
)

func configure(ctx context.Context, opts ...Option) (*config, error) {
	cfg := &config{}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	var err error
	cfg.resource, err = resolveResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve resource: %w", err)
	}

	spanProcessors, logProcessors, err := configureExporters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to configure exporters: %w", err)
	}
	cfg.spanProcessors = append(cfg.spanProcessors, spanProcessors...)
	cfg.logProcessors = append(cfg.logProcessors, logProcessors...)

	return cfg, nil
}

func newInternal(cfg *config) (*Providers, error) {
	return &Providers{
		TracerProvider: initTracerProvider(cfg),
		LoggerProvider: initLoggerProvider(cfg),
	}, nil
}

// resolveResource builds the OTel resource in layers (later attributes
// override earlier ones):
//  1. resource.Default() populates labels from environment variables
//     like OTEL_SERVICE_NAME and OTEL_RESOURCE_ATTRIBUTES.
//  2. The evalkit service name and version.
//  3. Resource from config, if present.
func resolveResource(ctx context.Context, cfg *config) (*resource.Resource, error) {
	serviceName := cfg.serviceName
	if serviceName == "" {
		serviceName = "evalkit"
	}

	own, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(version.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	r, err := resource.Merge(resource.Default(), own)
	if err != nil {
		return nil, fmt.Errorf("failed to merge default resource: %w", err)
	}
	if cfg.resource != nil {
		r, err = resource.Merge(r, cfg.resource)
		if err != nil {
			return nil, fmt.Errorf("failed to merge with config resource: %w", err)
		}
	}
	return r, nil
}

// configureExporters initializes OTLP exporters from environment
// variables. With no OTLP endpoint configured nothing is exported.
func configureExporters(ctx context.Context) ([]sdktrace.SpanProcessor, []sdklog.Processor, error) {
	var spanProcessors []sdktrace.SpanProcessor
	var logProcessors []sdklog.Processor

	_, otelEndpointExists := os.LookupEnv("OTEL_EXPORTER_OTLP_ENDPOINT")
	_, otelTracesEndpointExists := os.LookupEnv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT")
	if otelEndpointExists || otelTracesEndpointExists {
		exporter, err := otlptracehttp.New(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}
		spanProcessors = append(spanProcessors, sdktrace.NewBatchSpanProcessor(exporter))
	}

	_, otelLogsEndpointExists := os.LookupEnv("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT")
	if otelEndpointExists || otelLogsEndpointExists {
		exporter, err := otlploghttp.New(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
		}
		logProcessors = append(logProcessors, sdklog.NewBatchProcessor(exporter))
	}

	return spanProcessors, logProcessors, nil
}

func initTracerProvider(cfg *config) *sdktrace.TracerProvider {
	if cfg.tracerProvider != nil {
		return cfg.tracerProvider
	}
	if len(cfg.spanProcessors) == 0 {
		return nil
	}
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(cfg.resource),
	}
	for _, p := range cfg.spanProcessors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}
	return sdktrace.NewTracerProvider(opts...)
}

func initLoggerProvider(cfg *config) *sdklog.LoggerProvider {
	if len(cfg.logProcessors) == 0 {
		return nil
	}
	opts := []sdklog.LoggerProviderOption{
		sdklog.WithResource(cfg.resource),
	}
	for _, p := range cfg.logProcessors {
		opts = append(opts, sdklog.WithProcessor(p))
	}
	return sdklog.NewLoggerProvider(opts...)
}
