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
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormschema "gorm.io/gorm/schema"

	"github.com/converseml/evalkit/evaluation"
)

// SummaryMap stores the headline metrics of a run as a JSON column.
type SummaryMap map[string]float64

func (SummaryMap) GormDataType() string {
	return "text"
}

func (SummaryMap) GormDBDataType(db *gorm.DB, field *gormschema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "JSONB"
	case "mysql":
		return "LONGTEXT"
	default:
		return ""
	}
}

// Value implements driver.Valuer.
func (m SummaryMap) Value() (driver.Value, error) {
	if m == nil {
		m = make(map[string]float64) // Serialize as '{}' instead of NULL
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *SummaryMap) Scan(value any) error {
	if value == nil {
		*m = make(map[string]float64)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal JSON value: %T", value)
	}

	if len(bytes) == 0 {
		*m = make(map[string]float64)
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// RawDocument stores a run's full result document as a JSON column.
type RawDocument json.RawMessage

func (RawDocument) GormDataType() string {
	return "text"
}

// Value implements driver.Valuer.
func (d RawDocument) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return string(d), nil
}

// Scan implements sql.Scanner.
func (d *RawDocument) Scan(value any) error {
	if value == nil {
		*d = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*d = RawDocument(append([]byte(nil), v...))
	case string:
		*d = RawDocument(v)
	default:
		return fmt.Errorf("failed to unmarshal JSON value: %T", value)
	}
	return nil
}

// runRow is the database row for one run record.
type runRow struct {
	ID        string      `gorm:"primaryKey"`
	Project   string      `gorm:"index:idx_runs_project;index:idx_runs_project_kind"`
	Kind      string      `gorm:"index:idx_runs_project_kind"`
	CreatedAt time.Time   `gorm:"index"`
	Summary   SummaryMap  `gorm:"type:text"`
	Details   RawDocument `gorm:"type:text"`
}

func (runRow) TableName() string {
	return "evaluation_runs"
}

// SQLiteStorage persists run records in a SQLite database file. Use
// ":memory:" as the path for an ephemeral database.
type SQLiteStorage struct {
	db *gorm.DB
}

// NewSQLiteStorage opens (and migrates) the database at path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&runRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// SaveRun stores one run record.
func (s *SQLiteStorage) SaveRun(ctx context.Context, record *evaluation.RunRecord) error {
	if record == nil || record.ID == "" || record.Project == "" {
		return evaluation.ErrInvalidInput
	}

	row := runRow{
		ID:        record.ID,
		Project:   record.Project,
		Kind:      string(record.Kind),
		CreatedAt: record.CreatedAt,
		Summary:   SummaryMap(record.Summary),
		Details:   RawDocument(record.Details),
	}

	err := s.db.WithContext(ctx).Create(&row).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return evaluation.ErrAlreadyExists
	}
	return err
}

// GetRun retrieves a run by ID.
func (s *SQLiteStorage) GetRun(ctx context.Context, project, runID string) (*evaluation.RunRecord, error) {
	var row runRow
	err := s.db.WithContext(ctx).
		Where("project = ? AND id = ?", project, runID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, evaluation.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.record(), nil
}

// ListRuns returns all runs for a project, newest first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, project string) ([]evaluation.RunRecord, error) {
	return s.list(ctx, s.db.Where("project = ?", project))
}

// ListRunsByKind returns a project's runs of one kind, newest first.
func (s *SQLiteStorage) ListRunsByKind(ctx context.Context, project string, kind evaluation.RunKind) ([]evaluation.RunRecord, error) {
	return s.list(ctx, s.db.Where("project = ? AND kind = ?", project, string(kind)))
}

func (s *SQLiteStorage) list(ctx context.Context, query *gorm.DB) ([]evaluation.RunRecord, error) {
	var rows []runRow
	err := query.WithContext(ctx).
		Order("created_at DESC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]evaluation.RunRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, *row.record())
	}
	return records, nil
}

// DeleteRun removes a run.
func (s *SQLiteStorage) DeleteRun(ctx context.Context, project, runID string) error {
	result := s.db.WithContext(ctx).
		Where("project = ? AND id = ?", project, runID).
		Delete(&runRow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return evaluation.ErrNotFound
	}
	return nil
}

func (r *runRow) record() *evaluation.RunRecord {
	return &evaluation.RunRecord{
		ID:        r.ID,
		Project:   r.Project,
		Kind:      evaluation.RunKind(r.Kind),
		CreatedAt: r.CreatedAt,
		Summary:   map[string]float64(r.Summary),
		Details:   json.RawMessage(r.Details),
	}
}
