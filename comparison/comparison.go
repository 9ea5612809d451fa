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

// Package comparison drives repeated training/evaluation sweeps across the
// Cartesian product of configurations, training-data percentages and
// repetitions, and aggregates the per-run scores into mean/std summaries.
//
// The orchestrator is deliberately ignorant of what a "run" trains or
// evaluates: callers supply a RunFunc and the NLU and story packages build
// their sweeps on top of it. Sweeps are long-running, so a single failing
// run is recorded and the sweep continues; the final summary covers every
// combination that completed.
package comparison

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"rsc.io/omap"
	"rsc.io/ordered"

	"github.com/converseml/evalkit/internal/stats"
	itelemetry "github.com/converseml/evalkit/internal/telemetry"
)

// DefaultPercentages are the training-data exclusion percentages used when
// the caller specifies none.
var DefaultPercentages = []int{0, 25, 50, 75}

// DefaultRuns is the repetition count per (configuration, percentage)
// pair used when the caller specifies none.
const DefaultRuns = 3

// Unit identifies one (configuration, percentage, repetition) cell of a
// sweep.
type Unit struct {
	Config     string `json:"config"`
	Percentage int    `json:"percentage"`
	Repetition int    `json:"repetition"`
}

// RunFunc trains and evaluates one unit, returning the score of the chosen
// metric. It must honor ctx cancellation.
type RunFunc func(ctx context.Context, unit Unit) (float64, error)

// Run is the immutable record of one executed unit. It is created once
// when the unit finishes and never mutated afterwards.
type Run struct {
	ID string `json:"id"`
	Unit
	Score       float64   `json:"score"`
	Failed      bool      `json:"failed"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// Aggregate summarizes the repetitions of one (configuration, percentage)
// pair.
type Aggregate struct {
	Mean     float64   `json:"mean"`
	Std      float64   `json:"std"`
	Scores   []float64 `json:"scores"`
	Failures int       `json:"failures"`
}

// Summary is the final result of a sweep. Results is keyed by
// configuration name, then exclusion percentage. A summary may be partial:
// failed units appear in Runs with Failed set and count into Failures,
// while their score is excluded from Mean/Std.
type Summary struct {
	Configs     []string                     `json:"configs"`
	Percentages []int                        `json:"percentages"`
	Results     map[string]map[int]Aggregate `json:"results"`
	Runs        []Run                        `json:"runs"`
}

// Options configures a sweep.
type Options struct {
	// Percentages of training data to exclude. Defaults to
	// DefaultPercentages.
	Percentages []int

	// Runs is the repetition count per cell. Defaults to DefaultRuns.
	Runs int

	// Workers bounds the number of units in flight at once. Each unit
	// may itself use several cores while training, so this defaults to
	// a conservative runtime.NumCPU()/2 (minimum 1).
	Workers int

	// Timeout applies to each unit individually. Zero means no
	// per-unit timeout. A timed-out unit is recorded as a failure.
	Timeout time.Duration
}

func (o Options) withDefaults() Options {
	if len(o.Percentages) == 0 {
		o.Percentages = DefaultPercentages
	}
	if o.Runs <= 0 {
		o.Runs = DefaultRuns
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU() / 2
		if o.Workers < 1 {
			o.Workers = 1
		}
	}
	return o
}

// Orchestrator executes sweeps for a given RunFunc.
type Orchestrator struct {
	run RunFunc
}

// New creates an Orchestrator.
func New(run RunFunc) *Orchestrator {
	return &Orchestrator{run: run}
}

// Run drives the full (config, percentage, repetition) product through the
// RunFunc on a bounded worker pool. Unit failures are recorded and the
// sweep continues. The returned summary is partial when the parent context
// is canceled mid-sweep; in that case ctx.Err is also returned so the
// caller can tell a complete sweep from an interrupted one.
func (o *Orchestrator) Run(ctx context.Context, configs []string, opts Options) (*Summary, error) {
	opts = opts.withDefaults()

	// Runs are collected under a lock into an ordered map keyed by
	// (config, percentage, repetition) so iteration below is
	// deterministic regardless of completion order.
	var (
		mu   sync.Mutex
		runs omap.Map[string, Run]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for _, config := range configs {
		for _, pct := range opts.Percentages {
			for rep := 0; rep < opts.Runs; rep++ {
				unit := Unit{Config: config, Percentage: pct, Repetition: rep}
				g.Go(func() error {
					run := o.runUnit(gctx, unit, opts.Timeout)
					mu.Lock()
					runs.Set(unitKey(unit), run)
					mu.Unlock()
					return nil
				})
			}
		}
	}

	// Unit errors are swallowed into their Run records, so Wait only
	// reflects pool mechanics.
	_ = g.Wait()

	summary := o.summarize(configs, opts, &runs)
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (o *Orchestrator) runUnit(ctx context.Context, unit Unit, timeout time.Duration) Run {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	span := itelemetry.StartSpan(ctx, "comparison.unit")
	itelemetry.SpanAttributes(span, unit.Config, unit.Percentage, unit.Repetition)
	defer span.End()

	run := Run{
		ID:        uuid.NewString(),
		Unit:      unit,
		StartedAt: time.Now(),
	}

	score, err := o.run(ctx, unit)
	run.CompletedAt = time.Now()

	// A canceled unit discards its partial score and counts as a
	// failure.
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		run.Failed = true
		run.Error = err.Error()
		return run
	}

	run.Score = score
	return run
}

func (o *Orchestrator) summarize(configs []string, opts Options, runs *omap.Map[string, Run]) *Summary {
	summary := &Summary{
		Configs:     configs,
		Percentages: opts.Percentages,
		Results:     make(map[string]map[int]Aggregate),
	}

	for _, config := range configs {
		summary.Results[config] = make(map[int]Aggregate)
		for _, pct := range opts.Percentages {
			agg := Aggregate{}
			lo := unitKey(Unit{Config: config, Percentage: pct})
			hi := unitKey(Unit{Config: config, Percentage: pct, Repetition: opts.Runs})
			for _, run := range runs.Scan(lo, hi) {
				summary.Runs = append(summary.Runs, run)
				if run.Failed {
					agg.Failures++
					continue
				}
				agg.Scores = append(agg.Scores, run.Score)
			}
			agg.Mean = stats.Mean(agg.Scores)
			agg.Std = stats.Std(agg.Scores)
			summary.Results[config][pct] = agg
		}
	}

	return summary
}

func unitKey(unit Unit) string {
	return string(ordered.Encode(unit.Config, int64(unit.Percentage), int64(unit.Repetition)))
}
