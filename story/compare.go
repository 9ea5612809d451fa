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

package story

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/converseml/evalkit/comparison"
)

// CompareOptions configures a policy comparison sweep.
type CompareOptions struct {
	// Percentages of training stories to exclude per cell. Defaults to
	// comparison.DefaultPercentages.
	Percentages []int

	// Runs is the repetition count per cell. Defaults to
	// comparison.DefaultRuns.
	Runs int

	// Seed drives the per-repetition exclusion sampling.
	Seed int64

	// Workers and Timeout are passed through to the orchestrator.
	Workers int
	Timeout time.Duration
}

// Compare trains every policy configuration on progressively reduced
// training stories and replays the fixed test stories against each
// trained model. The metric is story accuracy: the fraction of test
// stories that end Matched. Failed training runs are recorded without
// aborting the sweep.
func Compare(ctx context.Context, trainer Trainer, configs []Config, training, test []*Story, opts CompareOptions) (*comparison.Summary, error) {
	if len(configs) < 1 {
		return nil, fmt.Errorf("story: comparison needs at least one config")
	}
	if len(test) == 0 {
		return nil, fmt.Errorf("story: comparison needs test stories")
	}

	byName := make(map[string]Config, len(configs))
	names := make([]string, 0, len(configs))
	for _, cfg := range configs {
		if _, dup := byName[cfg.Name]; dup {
			return nil, fmt.Errorf("story: duplicate config name %q", cfg.Name)
		}
		byName[cfg.Name] = cfg
		names = append(names, cfg.Name)
	}

	run := func(ctx context.Context, unit comparison.Unit) (float64, error) {
		cfg := byName[unit.Config]

		reduced := excludeStories(training, float64(unit.Percentage)/100, opts.Seed+int64(unit.Repetition)+1)
		model, err := trainer.Train(ctx, cfg, reduced)
		if err != nil {
			return 0, err
		}

		outcomes, _, err := Evaluate(ctx, model, test)
		if err != nil {
			return 0, err
		}
		return accuracy(outcomes), nil
	}

	return comparison.New(run).Run(ctx, names, comparison.Options{
		Percentages: opts.Percentages,
		Runs:        opts.Runs,
		Workers:     opts.Workers,
		Timeout:     opts.Timeout,
	})
}

// excludeStories removes roughly fraction of the training stories,
// keeping at least one, deterministically for a fixed seed.
func excludeStories(stories []*Story, fraction float64, seed int64) []*Story {
	if fraction <= 0 {
		return stories
	}

	indices := make([]int, len(stories))
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	keep := len(stories) - int(float64(len(stories))*fraction+0.5)
	if keep < 1 {
		keep = 1
	}

	kept := make([]*Story, 0, keep)
	for _, idx := range indices[:keep] {
		kept = append(kept, stories[idx])
	}
	return kept
}

func accuracy(outcomes []Outcome) float64 {
	passed := 0
	for _, o := range outcomes {
		if o.Passed {
			passed++
		}
	}
	return float64(passed) / float64(len(outcomes))
}
