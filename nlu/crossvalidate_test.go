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
	"errors"
	"fmt"
	"testing"

	"github.com/converseml/evalkit/dataset"
)

func crossValidationData() *dataset.Dataset {
	d := &dataset.Dataset{}
	for intent, n := range map[string]int{"greet": 6, "goodbye": 6, "thank": 6} {
		for i := 0; i < n; i++ {
			d.Examples = append(d.Examples, dataset.Example{
				Text:   fmt.Sprintf("%s utterance %d", intent, i),
				Intent: intent,
			})
		}
	}
	return d
}

func TestCrossValidate(t *testing.T) {
	result, err := CrossValidate(context.Background(), KeywordTrainer{}, Config{Name: "keyword"}, crossValidationData(), 3, 17)
	if err != nil {
		t.Fatalf("CrossValidate() failed: %v", err)
	}

	if got, want := len(result.FoldResults), 3; got != want {
		t.Fatalf("FoldResults = %d, want %d", got, want)
	}
	if got, want := result.Overall.Folds, 3; got != want {
		t.Errorf("Overall.Folds = %d, want %d", got, want)
	}

	for _, intent := range []string{"greet", "goodbye", "thank"} {
		stat, ok := result.Intent[intent]
		if !ok {
			t.Errorf("Intent stats missing label %q", intent)
			continue
		}
		if stat.Folds != 3 {
			t.Errorf("label %q scored in %d folds, want 3", intent, stat.Folds)
		}
	}

	if result.Entity != nil {
		t.Errorf("Entity stats = %v, want nil without entity annotations", result.Entity)
	}
}

func TestCrossValidateDefaultsFoldCount(t *testing.T) {
	// folds <= 0 falls back to DefaultFolds.
	result, err := CrossValidate(context.Background(), KeywordTrainer{}, Config{Name: "keyword"}, crossValidationData(), 0, 17)
	if err != nil {
		t.Fatalf("CrossValidate() failed: %v", err)
	}
	if got, want := len(result.FoldResults), DefaultFolds; got != want {
		t.Errorf("FoldResults = %d, want %d", got, want)
	}
}

type failingTrainer struct{}

func (failingTrainer) Train(ctx context.Context, config Config, data *dataset.Dataset) (Model, error) {
	return nil, errors.New("incompatible pipeline")
}

func TestCrossValidatePropagatesTrainingError(t *testing.T) {
	_, err := CrossValidate(context.Background(), failingTrainer{}, Config{Name: "broken"}, crossValidationData(), 3, 17)

	var trainingErr *TrainingError
	if !errors.As(err, &trainingErr) {
		t.Fatalf("CrossValidate() error = %v, want *TrainingError", err)
	}
	if trainingErr.Config != "broken" {
		t.Errorf("TrainingError.Config = %q, want %q", trainingErr.Config, "broken")
	}
}
