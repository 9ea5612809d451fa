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

// Package compare implements `evalkit compare`.
package compare

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/converseml/evalkit/cmd/cli/root"
)

// sweepFlags are shared by both comparison subcommands.
type sweepFlags struct {
	configs     []string
	percentages []int
	runs        int
	seed        int64
	workers     int
	timeout     time.Duration
}

// CompareCmd groups the comparison subcommands.
var CompareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare configurations across training-data exclusion sweeps.",
	Long: `Trains every given configuration on progressively reduced training data,
several repetitions per cell, and reports the mean and standard
deviation of the evaluation metric so configurations can be ranked at
equal data budgets.`,
}

func init() {
	root.RootCmd.AddCommand(CompareCmd)
}

func registerSweepFlags(cmd *cobra.Command, flags *sweepFlags) {
	cmd.Flags().StringArrayVarP(&flags.configs, "config", "c", nil, "Configuration file to compare; repeat per candidate")
	cmd.Flags().IntSliceVar(&flags.percentages, "percentages", nil, "Training exclusion percentages (default 0,25,50,75)")
	cmd.Flags().IntVar(&flags.runs, "runs", 0, "Repetitions per cell (default 3)")
	cmd.Flags().Int64Var(&flags.seed, "seed", 0, "Seed for splits and exclusion sampling")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Concurrent workers (0 = half the CPUs)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Per-unit timeout (0 = none)")

	cmd.MarkFlagRequired("config")
}
