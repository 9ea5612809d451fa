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

// Package telemetry emits the spans and log records produced while
// evaluation runs execute. Exporter setup is the caller's concern (see
// the public telemetry package); with no global providers configured
// everything here is a no-op.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/converseml/evalkit"

// StartSpan opens a span on the globally configured tracer. Callers must
// End it.
func StartSpan(ctx context.Context, name string) trace.Span {
	_, span := otel.GetTracerProvider().Tracer(instrumentationName).Start(ctx, name)
	return span
}

// SpanAttributes annotates a span with sweep-unit coordinates.
func SpanAttributes(span trace.Span, config string, percentage, repetition int) {
	span.SetAttributes(
		attribute.String("evalkit.config", config),
		attribute.Int("evalkit.exclusion_percentage", percentage),
		attribute.Int("evalkit.repetition", repetition),
	)
}
