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

	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"

	"github.com/converseml/evalkit/internal/version"
)

func logger() log.Logger {
	return global.GetLoggerProvider().Logger(
		instrumentationName,
		log.WithInstrumentationVersion(version.Version),
	)
}

// LogEvaluation emits one record summarizing a finished evaluation batch.
func LogEvaluation(ctx context.Context, kind string, examples, errors int) {
	record := log.Record{}
	record.SetEventName("evalkit.evaluation")
	record.SetSeverity(log.SeverityInfo)
	record.AddAttributes(
		log.String("kind", kind),
		log.Int("examples", examples),
		log.Int("errors", errors),
	)
	logger().Emit(ctx, record)
}

// LogStoryOutcome emits one record per replayed test story.
func LogStoryOutcome(ctx context.Context, name string, status string, mismatches int) {
	record := log.Record{}
	record.SetEventName("evalkit.story")
	record.SetSeverity(log.SeverityInfo)
	record.AddAttributes(
		log.String("story", name),
		log.String("status", status),
		log.Int("mismatches", mismatches),
	)
	logger().Emit(ctx, record)
}
