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
	"strings"

	"github.com/converseml/evalkit/evaluation"
	"github.com/converseml/evalkit/evaluation/entities"

	"github.com/converseml/evalkit/dataset"
	itelemetry "github.com/converseml/evalkit/internal/telemetry"
)

// AlignmentFailure records an example whose entity annotations could not
// be mapped onto the tokenization. The example is excluded from entity
// scoring and listed here instead.
type AlignmentFailure struct {
	Text      string `json:"text"`
	Predicted bool   `json:"predicted"`
	Reason    string `json:"reason"`
}

// Result is the outcome of a single-holdout evaluation: one report per
// evaluated capability plus the materialized errors sets. Capabilities
// absent from the test data leave their report nil.
type Result struct {
	Intent            *evaluation.Report `json:"intent,omitempty"`
	Entity            *evaluation.Report `json:"entity,omitempty"`
	ResponseSelection *evaluation.Report `json:"response_selection,omitempty"`

	IntentErrors      []evaluation.ClassificationResult `json:"intent_errors,omitempty"`
	SelectorErrors    []evaluation.ClassificationResult `json:"response_selection_errors,omitempty"`
	AlignmentFailures []AlignmentFailure                `json:"entity_alignment_failures,omitempty"`
}

// Evaluate runs a trained model over a labeled test set and scores every
// capability the data exercises. Per-example entity alignment problems are
// collected, never fatal; a failing model or canceled context aborts the
// evaluation.
func Evaluate(ctx context.Context, model Model, test *dataset.Dataset) (*Result, error) {
	if test.Len() == 0 {
		return nil, fmt.Errorf("nlu: empty test set: %w", evaluation.ErrInvalidInput)
	}

	span := itelemetry.StartSpan(ctx, "nlu.evaluate")
	defer span.End()

	var (
		intentResults   []evaluation.ClassificationResult
		selectorStreams = make(map[string][]evaluation.ClassificationResult)
		entityPairs     []entities.AlignedPair
		failures        []AlignmentFailure
		sawEntities     bool
	)

	for _, example := range test.Examples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		prediction, err := model.Predict(ctx, example.Text)
		if err != nil {
			return nil, fmt.Errorf("nlu: predicting %q: %w", example.Text, err)
		}

		intentResults = append(intentResults, evaluation.ClassificationResult{
			Text:       example.Text,
			Gold:       baseIntent(example.Intent),
			Predicted:  baseIntent(prediction.Intent),
			Confidence: prediction.Confidence,
		})

		if selector, ok := example.RetrievalIntent(); ok {
			selected := prediction.Selectors[selector]
			selectorStreams[selector] = append(selectorStreams[selector], evaluation.ClassificationResult{
				Text:       example.Text,
				Gold:       example.Intent,
				Predicted:  selected.FullIntent,
				Confidence: selected.Confidence,
			})
		}

		if len(example.Entities) > 0 {
			sawEntities = true
		}
		pair, failure := alignExample(example, prediction)
		if failure != nil {
			failures = append(failures, *failure)
			continue
		}
		entityPairs = append(entityPairs, pair)
	}

	result := &Result{
		Intent:            evaluation.ScoreClassifications(intentResults),
		IntentErrors:      evaluation.Misclassified(intentResults),
		AlignmentFailures: failures,
	}

	if sawEntities {
		report, err := entities.Score(entityPairs)
		if err != nil {
			return nil, err
		}
		result.Entity = report
	}

	if len(selectorStreams) > 0 {
		merged := evaluation.MergeSelectorResults(selectorStreams)
		result.ResponseSelection = evaluation.ScoreClassifications(merged)
		result.SelectorErrors = evaluation.Misclassified(merged)
	}

	itelemetry.LogEvaluation(ctx, "nlu", test.Len(), len(result.IntentErrors)+len(result.SelectorErrors))
	return result, nil
}

// alignExample maps gold and predicted spans onto a shared tokenization.
// The model's own tokens win when present.
func alignExample(example dataset.Example, prediction *Prediction) (entities.AlignedPair, *AlignmentFailure) {
	tokens := prediction.Tokens
	if len(tokens) == 0 {
		tokens = entities.WhitespaceTokenize(example.Text)
	}

	gold, err := entities.Align(tokens, example.Entities)
	if err != nil {
		return entities.AlignedPair{}, &AlignmentFailure{Text: example.Text, Reason: err.Error()}
	}
	predicted, err := entities.Align(tokens, prediction.Entities)
	if err != nil {
		return entities.AlignedPair{}, &AlignmentFailure{Text: example.Text, Predicted: true, Reason: err.Error()}
	}
	return entities.AlignedPair{Gold: gold, Predicted: predicted}, nil
}

// baseIntent strips the retrieval sub-label: intent scoring compares base
// intents, response selection compares the full sub-label.
func baseIntent(intent string) string {
	base, _, _ := strings.Cut(intent, "/")
	return base
}
