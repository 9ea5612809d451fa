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

package evaluation

import (
	"context"
	"encoding/json"
	"time"
)

// RunKind classifies what a persisted evaluation run measured.
type RunKind string

const (
	// RunNLU is an intent/entity evaluation or cross-validation run.
	RunNLU RunKind = "nlu"

	// RunStories is a test-story replay run.
	RunStories RunKind = "stories"

	// RunComparison is a configuration comparison sweep.
	RunComparison RunKind = "comparison"
)

// RunRecord is one persisted evaluation run. Summary holds the headline
// metrics; Details is the full result document of the run, marshaled by
// the caller so storage stays agnostic of result shapes.
type RunRecord struct {
	ID        string             `json:"id"`
	Project   string             `json:"project"`
	Kind      RunKind            `json:"kind"`
	CreatedAt time.Time          `json:"created_at"`
	Summary   map[string]float64 `json:"summary,omitempty"`
	Details   json.RawMessage    `json:"details,omitempty"`
}

// Storage defines persistence for evaluation runs. Runs are grouped by
// project, the assistant they evaluate.
type Storage interface {
	// SaveRun stores one run record.
	SaveRun(ctx context.Context, record *RunRecord) error

	// GetRun retrieves a run by ID.
	GetRun(ctx context.Context, project, runID string) (*RunRecord, error)

	// ListRuns returns all runs for a project, newest first.
	ListRuns(ctx context.Context, project string) ([]RunRecord, error)

	// ListRunsByKind returns a project's runs of one kind, newest first.
	ListRunsByKind(ctx context.Context, project string, kind RunKind) ([]RunRecord, error)

	// DeleteRun removes a run.
	DeleteRun(ctx context.Context, project, runID string) error
}

// NewRunRecord marshals details into a record ready for SaveRun.
func NewRunRecord(id, project string, kind RunKind, summary map[string]float64, details any) (*RunRecord, error) {
	payload, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}
	return &RunRecord{
		ID:        id,
		Project:   project,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
		Summary:   summary,
		Details:   payload,
	}, nil
}
