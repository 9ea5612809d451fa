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

	"github.com/converseml/evalkit/dataset"
	"github.com/converseml/evalkit/evaluation"
	"github.com/converseml/evalkit/internal/stats"
)

// DefaultFolds is the fold count used when the caller specifies none.
const DefaultFolds = 5

// FoldStat aggregates one label's F1 across the folds that contained it.
type FoldStat struct {
	MeanF1 float64 `json:"mean_f1"`
	StdF1  float64 `json:"std_f1"`
	Folds  int     `json:"folds"`
}

// CrossValidationResult aggregates k per-fold evaluations.
type CrossValidationResult struct {
	// Intent and Entity map label -> mean/std of F1 across folds. A
	// label missing from a fold's test split simply does not count
	// toward that label's statistics.
	Intent map[string]FoldStat `json:"intent"`
	Entity map[string]FoldStat `json:"entity,omitempty"`

	// Overall tracks the weighted-average intent F1 across folds.
	Overall FoldStat `json:"overall"`

	// FoldResults holds the underlying per-fold evaluations.
	FoldResults []*Result `json:"fold_results"`
}

// CrossValidate partitions data into folds stratified by intent, trains
// and evaluates once per fold, and aggregates per-label F1 statistics.
// Every example appears in exactly one test fold.
func CrossValidate(ctx context.Context, trainer Trainer, config Config, data *dataset.Dataset, folds int, seed int64) (*CrossValidationResult, error) {
	if folds <= 0 {
		folds = DefaultFolds
	}

	partition, err := dataset.KFold(data, folds, seed)
	if err != nil {
		return nil, err
	}

	result := &CrossValidationResult{
		Intent: make(map[string]FoldStat),
		Entity: make(map[string]FoldStat),
	}

	var overall []float64
	intentF1 := make(map[string][]float64)
	entityF1 := make(map[string][]float64)

	for i, fold := range partition {
		model, err := trainer.Train(ctx, config, fold.Train)
		if err != nil {
			return nil, &TrainingError{Config: config.Name, Err: fmt.Errorf("fold %d: %w", i, err)}
		}

		foldResult, err := Evaluate(ctx, model, fold.Test)
		if err != nil {
			return nil, fmt.Errorf("nlu: evaluating fold %d: %w", i, err)
		}
		result.FoldResults = append(result.FoldResults, foldResult)

		overall = append(overall, foldResult.Intent.Weighted.F1)
		collectF1(intentF1, foldResult.Intent)
		collectF1(entityF1, foldResult.Entity)
	}

	result.Overall = foldStat(overall)
	for label, xs := range intentF1 {
		result.Intent[label] = foldStat(xs)
	}
	for label, xs := range entityF1 {
		result.Entity[label] = foldStat(xs)
	}
	if len(result.Entity) == 0 {
		result.Entity = nil
	}

	return result, nil
}

func collectF1(into map[string][]float64, report *evaluation.Report) {
	if report == nil {
		return
	}
	for label, m := range report.Labels {
		into[label] = append(into[label], m.F1)
	}
}

func foldStat(xs []float64) FoldStat {
	return FoldStat{
		MeanF1: stats.Mean(xs),
		StdF1:  stats.Std(xs),
		Folds:  len(xs),
	}
}
