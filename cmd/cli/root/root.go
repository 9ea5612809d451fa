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

// Package root holds the evalkit root command and the flags and helpers
// shared by its subcommands.
package root

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/converseml/evalkit/evaluation"
	"github.com/converseml/evalkit/evaluation/storage"
	"github.com/converseml/evalkit/internal/version"
	"github.com/converseml/evalkit/nlu"
)

type rootFlags struct {
	project string
	out     string
	db      string
}

var flags rootFlags

// RootCmd is the evalkit command every subcommand hangs off.
var RootCmd = &cobra.Command{
	Use:           "evalkit",
	Short:         "Evaluation toolkit for conversational assistants.",
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&flags.project, "project", "default", "Project name run records are grouped under")
	RootCmd.PersistentFlags().StringVar(&flags.out, "out", "", "Directory to persist run records as JSON files")
	RootCmd.PersistentFlags().StringVar(&flags.db, "db", "", "SQLite database path to persist run records (overrides --out)")

	// Built-in baseline, available without further registration.
	if err := nlu.RegisterTrainer("keyword", nlu.KeywordTrainer{}); err != nil {
		panic(err)
	}
}

// Project returns the configured project name.
func Project() string {
	return flags.project
}

// OpenStorage opens the run-record backend selected by the persistence
// flags, or nil when no persistence was requested.
func OpenStorage() (evaluation.Storage, error) {
	switch {
	case flags.db != "":
		return storage.NewSQLiteStorage(flags.db)
	case flags.out != "":
		return storage.NewFileStorage(flags.out)
	default:
		return nil, nil
	}
}

// SaveRun persists one finished run if a storage backend is configured.
func SaveRun(ctx context.Context, kind evaluation.RunKind, summary map[string]float64, details any) error {
	store, err := OpenStorage()
	if err != nil {
		return err
	}
	if store == nil {
		return nil
	}

	record, err := evaluation.NewRunRecord(uuid.NewString(), flags.project, kind, summary, details)
	if err != nil {
		return err
	}
	return store.SaveRun(ctx, record)
}
