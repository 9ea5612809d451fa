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
	"sort"
	"strings"

	"github.com/converseml/evalkit/dataset"
	"github.com/converseml/evalkit/evaluation/entities"
)

// KeywordTrainer is a reference Trainer with no external dependencies: it
// memorizes training utterances verbatim and falls back to the most
// frequent intent for unseen text. It exists to exercise the evaluation
// harness end to end and to serve as a floor baseline in comparisons.
type KeywordTrainer struct{}

// Train builds the lookup model. It fails on an empty dataset, mirroring
// how real trainers reject unusable data.
func (KeywordTrainer) Train(ctx context.Context, config Config, data *dataset.Dataset) (Model, error) {
	if data.Len() == 0 {
		return nil, &TrainingError{Config: config.Name, Err: fmt.Errorf("empty training set")}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := &keywordModel{memorized: make(map[string]dataset.Example, data.Len())}

	counts := make(map[string]int)
	for _, example := range data.Examples {
		m.memorized[strings.ToLower(example.Text)] = example
		counts[baseIntent(example.Intent)]++
	}

	// Most frequent base intent, ties broken by name for determinism.
	intents := make([]string, 0, len(counts))
	for intent := range counts {
		intents = append(intents, intent)
	}
	sort.Slice(intents, func(i, j int) bool {
		if counts[intents[i]] != counts[intents[j]] {
			return counts[intents[i]] > counts[intents[j]]
		}
		return intents[i] < intents[j]
	})
	m.fallback = intents[0]

	return m, nil
}

type keywordModel struct {
	memorized map[string]dataset.Example
	fallback  string
}

func (m *keywordModel) Predict(ctx context.Context, utterance string) (*Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	example, ok := m.memorized[strings.ToLower(utterance)]
	if !ok {
		return &Prediction{Intent: m.fallback, Confidence: 0.0}, nil
	}

	prediction := &Prediction{
		Intent:     baseIntent(example.Intent),
		Confidence: 1.0,
		Entities:   append([]entities.Span(nil), example.Entities...),
	}
	if selector, ok := example.RetrievalIntent(); ok {
		prediction.Selectors = map[string]SelectorPrediction{
			selector: {FullIntent: example.Intent, Confidence: 1.0},
		}
	}
	return prediction, nil
}
