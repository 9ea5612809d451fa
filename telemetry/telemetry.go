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

// Package telemetry configures OpenTelemetry export for evalkit.
// Evaluation runs emit spans and log records through the global OTel
// providers; this package builds those providers from OTLP environment
// variables and the given options. Without it everything evalkit emits
// stays a no-op.
package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Providers wraps the configured OTel providers and manages their
// lifecycle. Either provider may be nil when nothing was configured for
// its signal.
type Providers struct {
	TracerProvider *sdktrace.TracerProvider
	LoggerProvider *sdklog.LoggerProvider
}

// New initializes telemetry providers from OTLP environment variables
// (OTEL_EXPORTER_OTLP_ENDPOINT and the per-signal variants) and the
// given options. The caller must call [Providers.Shutdown] to flush and
// release resources, and register the providers globally via
// [Providers.SetGlobalOtelProviders] for evalkit to pick them up.
func New(ctx context.Context, opts ...Option) (*Providers, error) {
	cfg, err := configure(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return newInternal(cfg)
}

// SetGlobalOtelProviders registers the configured providers as the
// global OTel providers.
func (p *Providers) SetGlobalOtelProviders() {
	if p.TracerProvider != nil {
		otel.SetTracerProvider(p.TracerProvider)
	}
	if p.LoggerProvider != nil {
		global.SetLoggerProvider(p.LoggerProvider)
	}
}

// Shutdown flushes and shuts down the underlying providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.TracerProvider != nil {
		errs = append(errs, p.TracerProvider.Shutdown(ctx))
	}
	if p.LoggerProvider != nil {
		errs = append(errs, p.LoggerProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
