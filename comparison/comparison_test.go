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

package comparison

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestRunCoversFullProduct(t *testing.T) {
	orch := New(func(ctx context.Context, unit Unit) (float64, error) {
		return float64(unit.Percentage) / 100, nil
	})

	summary, err := orch.Run(context.Background(), []string{"keyword", "fallback"}, Options{
		Percentages: []int{0, 50},
		Runs:        2,
		Workers:     4,
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if got, want := len(summary.Runs), 8; got != want {
		t.Fatalf("summary has %d runs, want %d", got, want)
	}

	// Runs are ordered by (config, percentage, repetition) regardless
	// of completion order.
	var units []Unit
	for _, run := range summary.Runs {
		units = append(units, run.Unit)
	}
	want := []Unit{
		{Config: "keyword", Percentage: 0, Repetition: 0},
		{Config: "keyword", Percentage: 0, Repetition: 1},
		{Config: "keyword", Percentage: 50, Repetition: 0},
		{Config: "keyword", Percentage: 50, Repetition: 1},
		{Config: "fallback", Percentage: 0, Repetition: 0},
		{Config: "fallback", Percentage: 0, Repetition: 1},
		{Config: "fallback", Percentage: 50, Repetition: 0},
		{Config: "fallback", Percentage: 50, Repetition: 1},
	}
	if diff := cmp.Diff(want, units); diff != "" {
		t.Errorf("run order mismatch (-want +got):\n%s", diff)
	}

	agg := summary.Results["keyword"][50]
	if got, want := agg.Mean, 0.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("mean = %v, want %v", got, want)
	}
	if agg.Std != 0 {
		t.Errorf("std = %v, want 0", agg.Std)
	}
}

func TestRunAggregatesMeanAndStd(t *testing.T) {
	var rep atomic.Int64
	orch := New(func(ctx context.Context, unit Unit) (float64, error) {
		// Scores 0.6 and 0.8 across the two repetitions.
		if rep.Add(1) == 1 {
			return 0.6, nil
		}
		return 0.8, nil
	})

	summary, err := orch.Run(context.Background(), []string{"cfg"}, Options{
		Percentages: []int{0},
		Runs:        2,
		Workers:     1,
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	agg := summary.Results["cfg"][0]
	if got, want := agg.Mean, 0.7; math.Abs(got-want) > 1e-9 {
		t.Errorf("mean = %v, want %v", got, want)
	}
	if got, want := agg.Std, 0.1; math.Abs(got-want) > 1e-9 {
		t.Errorf("std = %v, want %v", got, want)
	}
}

func TestRunToleratesUnitFailures(t *testing.T) {
	trainingErr := errors.New("invalid pipeline component")
	orch := New(func(ctx context.Context, unit Unit) (float64, error) {
		if unit.Config == "broken" && unit.Percentage == 50 && unit.Repetition == 1 {
			return 0, fmt.Errorf("training config %q: %w", unit.Config, trainingErr)
		}
		return 0.9, nil
	})

	summary, err := orch.Run(context.Background(), []string{"broken", "healthy"}, Options{
		Percentages: []int{0, 50},
		Runs:        2,
		Workers:     2,
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	// The failing cell is recorded but the rest of the sweep completes.
	agg := summary.Results["broken"][50]
	if got, want := agg.Failures, 1; got != want {
		t.Errorf("failures = %d, want %d", got, want)
	}
	if got, want := len(agg.Scores), 1; got != want {
		t.Errorf("scores = %d, want %d", got, want)
	}

	for _, config := range []string{"healthy"} {
		for _, pct := range []int{0, 50} {
			agg := summary.Results[config][pct]
			if agg.Failures != 0 || len(agg.Scores) != 2 {
				t.Errorf("%s/%d = %+v, want 2 scores and no failures", config, pct, agg)
			}
		}
	}

	failed := 0
	for _, run := range summary.Runs {
		if run.Failed {
			failed++
			if run.Error == "" {
				t.Errorf("failed run %v has no error message", run.Unit)
			}
		}
	}
	if failed != 1 {
		t.Errorf("summary records %d failed runs, want 1", failed)
	}
}

func TestRunUnitTimeout(t *testing.T) {
	orch := New(func(ctx context.Context, unit Unit) (float64, error) {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(5 * time.Second):
			return 1, nil
		}
	})

	summary, err := orch.Run(context.Background(), []string{"slow"}, Options{
		Percentages: []int{0},
		Runs:        1,
		Workers:     1,
		Timeout:     10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	agg := summary.Results["slow"][0]
	if agg.Failures != 1 {
		t.Errorf("failures = %d, want 1", agg.Failures)
	}
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orch := New(func(ctx context.Context, unit Unit) (float64, error) {
		return 1, ctx.Err()
	})

	summary, err := orch.Run(ctx, []string{"cfg"}, Options{Percentages: []int{0}, Runs: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if summary == nil {
		t.Fatalf("Run() returned nil summary, want partial summary")
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	if diff := cmp.Diff(DefaultPercentages, opts.Percentages); diff != "" {
		t.Errorf("default percentages mismatch (-want +got):\n%s", diff)
	}
	if opts.Runs != DefaultRuns {
		t.Errorf("default runs = %d, want %d", opts.Runs, DefaultRuns)
	}
	if opts.Workers < 1 {
		t.Errorf("default workers = %d, want >= 1", opts.Workers)
	}
}
