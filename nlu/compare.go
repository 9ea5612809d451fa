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

package nlu

import (
	"context"
	"fmt"
	"time"

	"github.com/converseml/evalkit/comparison"
	"github.com/converseml/evalkit/dataset"
)

// CompareTestFraction is the held-out share of data in a comparison
// sweep. It is fixed once per sweep: every configuration and percentage
// is evaluated against the identical test split so their scores stay
// comparable.
const CompareTestFraction = 0.2

// CompareOptions configures a multi-config comparison sweep.
type CompareOptions struct {
	// Percentages of training data to exclude per cell. Defaults to
	// comparison.DefaultPercentages.
	Percentages []int

	// Runs is the repetition count per cell. Defaults to
	// comparison.DefaultRuns.
	Runs int

	// Seed drives the train/test split and the per-repetition
	// exclusion sampling. The test partition is a pure function of the
	// seed, so repeated sweeps with the same seed hold out the same
	// examples.
	Seed int64

	// Workers and Timeout are passed through to the orchestrator.
	Workers int
	Timeout time.Duration
}

// Compare trains and evaluates every configuration at every exclusion
// percentage, repeated for statistical reliability, and reports the mean
// and standard deviation of the weighted intent F1 per cell. A failed
// training run is recorded in the summary without aborting the sweep.
func Compare(ctx context.Context, trainer Trainer, configs []Config, data *dataset.Dataset, opts CompareOptions) (*comparison.Summary, error) {
	if len(configs) < 1 {
		return nil, fmt.Errorf("nlu: comparison needs at least one config")
	}

	byName := make(map[string]Config, len(configs))
	names := make([]string, 0, len(configs))
	for _, cfg := range configs {
		if _, dup := byName[cfg.Name]; dup {
			return nil, fmt.Errorf("nlu: duplicate config name %q", cfg.Name)
		}
		byName[cfg.Name] = cfg
		names = append(names, cfg.Name)
	}

	// The split happens once, up front. Exclusion below only ever
	// touches the training side.
	train, test := dataset.SeededSplitter{Seed: opts.Seed}.Split(data, CompareTestFraction)

	run := func(ctx context.Context, unit comparison.Unit) (float64, error) {
		cfg := byName[unit.Config]

		// Each repetition samples its own exclusion so repeated runs
		// measure training-data variance, not the same subset thrice.
		excluder := dataset.SeededSplitter{Seed: opts.Seed + int64(unit.Repetition) + 1}
		reduced := excluder.Exclude(train, float64(unit.Percentage)/100)

		model, err := trainer.Train(ctx, cfg, reduced)
		if err != nil {
			return 0, &TrainingError{Config: cfg.Name, Err: err}
		}

		result, err := Evaluate(ctx, model, test)
		if err != nil {
			return 0, err
		}
		return result.Intent.Weighted.F1, nil
	}

	return comparison.New(run).Run(ctx, names, comparison.Options{
		Percentages: opts.Percentages,
		Runs:        opts.Runs,
		Workers:     opts.Workers,
		Timeout:     opts.Timeout,
	})
}
