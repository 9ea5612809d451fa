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

// Package storage provides evaluation.Storage backends: in-memory, flat
// JSON files and SQLite.
package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/converseml/evalkit/evaluation"
)

// MemoryStorage keeps run records in memory. Suitable for tests and
// single-shot CLI invocations.
type MemoryStorage struct {
	mu sync.RWMutex

	// runs maps project -> runID -> record
	runs map[string]map[string]*evaluation.RunRecord
}

// NewMemoryStorage creates an empty in-memory storage instance.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		runs: make(map[string]map[string]*evaluation.RunRecord),
	}
}

// SaveRun stores one run record.
func (m *MemoryStorage) SaveRun(ctx context.Context, record *evaluation.RunRecord) error {
	if record == nil || record.ID == "" || record.Project == "" {
		return evaluation.ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.runs[record.Project]; !exists {
		m.runs[record.Project] = make(map[string]*evaluation.RunRecord)
	}
	if _, exists := m.runs[record.Project][record.ID]; exists {
		return evaluation.ErrAlreadyExists
	}

	copied := copyRecord(record)
	m.runs[record.Project][record.ID] = &copied
	return nil
}

// GetRun retrieves a run by ID.
func (m *MemoryStorage) GetRun(ctx context.Context, project, runID string) (*evaluation.RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	projectRuns, exists := m.runs[project]
	if !exists {
		return nil, evaluation.ErrNotFound
	}
	record, exists := projectRuns[runID]
	if !exists {
		return nil, evaluation.ErrNotFound
	}

	copied := copyRecord(record)
	return &copied, nil
}

// ListRuns returns all runs for a project, newest first.
func (m *MemoryStorage) ListRuns(ctx context.Context, project string) ([]evaluation.RunRecord, error) {
	return m.list(project, func(*evaluation.RunRecord) bool { return true })
}

// ListRunsByKind returns a project's runs of one kind, newest first.
func (m *MemoryStorage) ListRunsByKind(ctx context.Context, project string, kind evaluation.RunKind) ([]evaluation.RunRecord, error) {
	return m.list(project, func(r *evaluation.RunRecord) bool { return r.Kind == kind })
}

func (m *MemoryStorage) list(project string, keep func(*evaluation.RunRecord) bool) ([]evaluation.RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	projectRuns, exists := m.runs[project]
	if !exists {
		return []evaluation.RunRecord{}, nil
	}

	records := make([]evaluation.RunRecord, 0, len(projectRuns))
	for _, record := range projectRuns {
		if keep(record) {
			records = append(records, copyRecord(record))
		}
	}
	sortNewestFirst(records)
	return records, nil
}

// DeleteRun removes a run.
func (m *MemoryStorage) DeleteRun(ctx context.Context, project, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	projectRuns, exists := m.runs[project]
	if !exists {
		return evaluation.ErrNotFound
	}
	if _, exists := projectRuns[runID]; !exists {
		return evaluation.ErrNotFound
	}
	delete(projectRuns, runID)
	return nil
}

// copyRecord deep-copies a record so callers cannot mutate stored state.
func copyRecord(record *evaluation.RunRecord) evaluation.RunRecord {
	copied := *record
	if record.Summary != nil {
		copied.Summary = make(map[string]float64, len(record.Summary))
		for k, v := range record.Summary {
			copied.Summary[k] = v
		}
	}
	if record.Details != nil {
		copied.Details = append([]byte(nil), record.Details...)
	}
	return copied
}

func sortNewestFirst(records []evaluation.RunRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
}
