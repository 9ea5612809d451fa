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
	"os"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewWithoutEndpointsIsInert(t *testing.T) {
	// t.Setenv registers the restore; the exporters check for presence,
	// not emptiness, so the variables must be unset entirely.
	for _, key := range []string{
		"OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT",
		"OTEL_EXPORTER_OTLP_LOGS_ENDPOINT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	providers, err := New(context.Background())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if providers.TracerProvider != nil {
		t.Errorf("TracerProvider = %v, want nil without an endpoint", providers.TracerProvider)
	}
	if providers.LoggerProvider != nil {
		t.Errorf("LoggerProvider = %v, want nil without an endpoint", providers.LoggerProvider)
	}
	if err := providers.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() failed: %v", err)
	}
}

func TestNewWithSpanProcessors(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()

	providers, err := New(context.Background(),
		WithServiceName("evalkit-test"),
		WithSpanProcessors(recorder),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if providers.TracerProvider == nil {
		t.Fatal("TracerProvider = nil, want one built from the registered processor")
	}

	_, span := providers.TracerProvider.Tracer("test").Start(context.Background(), "op")
	span.End()

	if got := len(recorder.Ended()); got != 1 {
		t.Errorf("recorded %d spans, want 1", got)
	}
	if err := providers.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() failed: %v", err)
	}
}

func TestWithTracerProviderOverride(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	providers, err := New(context.Background(), WithTracerProvider(tp))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if providers.TracerProvider != tp {
		t.Errorf("TracerProvider = %v, want the preconfigured instance", providers.TracerProvider)
	}
}
