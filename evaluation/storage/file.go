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

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/converseml/evalkit/evaluation"
)

// FileStorage persists run records as JSON files:
//
//	<basePath>/
//	  runs/
//	    <project>/
//	      <runID>.json
type FileStorage struct {
	mu       sync.RWMutex
	basePath string
}

// NewFileStorage creates a file-based storage instance rooted at
// basePath.
func NewFileStorage(basePath string) (*FileStorage, error) {
	if err := os.MkdirAll(filepath.Join(basePath, "runs"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create runs directory: %w", err)
	}
	return &FileStorage{basePath: basePath}, nil
}

func (f *FileStorage) runPath(project, runID string) string {
	return filepath.Join(f.basePath, "runs", project, fmt.Sprintf("%s.json", runID))
}

// SaveRun stores one run record.
func (f *FileStorage) SaveRun(ctx context.Context, record *evaluation.RunRecord) error {
	if record == nil || record.ID == "" || record.Project == "" {
		return evaluation.ErrInvalidInput
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	projectDir := filepath.Join(f.basePath, "runs", record.Project)
	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	path := f.runPath(record.Project, record.ID)
	if _, err := os.Stat(path); err == nil {
		return evaluation.ErrAlreadyExists
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run record: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (f *FileStorage) GetRun(ctx context.Context, project, runID string) (*evaluation.RunRecord, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.runPath(project, runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, evaluation.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read run record: %w", err)
	}

	var record evaluation.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run record: %w", err)
	}
	return &record, nil
}

// ListRuns returns all runs for a project, newest first.
func (f *FileStorage) ListRuns(ctx context.Context, project string) ([]evaluation.RunRecord, error) {
	return f.list(project, func(*evaluation.RunRecord) bool { return true })
}

// ListRunsByKind returns a project's runs of one kind, newest first.
func (f *FileStorage) ListRunsByKind(ctx context.Context, project string, kind evaluation.RunKind) ([]evaluation.RunRecord, error) {
	return f.list(project, func(r *evaluation.RunRecord) bool { return r.Kind == kind })
}

func (f *FileStorage) list(project string, keep func(*evaluation.RunRecord) bool) ([]evaluation.RunRecord, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	projectDir := filepath.Join(f.basePath, "runs", project)
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []evaluation.RunRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read project directory: %w", err)
	}

	records := make([]evaluation.RunRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(projectDir, entry.Name()))
		if err != nil {
			continue
		}

		var record evaluation.RunRecord
		if err := json.Unmarshal(data, &record); err != nil {
			continue
		}
		if keep(&record) {
			records = append(records, record)
		}
	}
	sortNewestFirst(records)
	return records, nil
}

// DeleteRun removes a run.
func (f *FileStorage) DeleteRun(ctx context.Context, project, runID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.runPath(project, runID)); err != nil {
		if os.IsNotExist(err) {
			return evaluation.ErrNotFound
		}
		return fmt.Errorf("failed to delete run record: %w", err)
	}
	return nil
}
