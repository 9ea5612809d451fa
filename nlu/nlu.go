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

// Package nlu evaluates natural-language-understanding models: intent
// classification, entity extraction and response selection. It covers
// single-holdout evaluation, k-fold cross-validation and multi-config
// comparison sweeps over training-data percentages.
//
// Training and inference are collaborator interfaces (Trainer, Model);
// the package never trains anything itself.
package nlu

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/converseml/evalkit/dataset"
	"github.com/converseml/evalkit/evaluation/entities"
)

// SelectorPrediction is the outcome of one response selector for an
// utterance: the chosen full retrieval sub-label and its confidence.
type SelectorPrediction struct {
	FullIntent string  `json:"full_intent"`
	Confidence float64 `json:"confidence"`
}

// Prediction is a model's complete output for one utterance.
type Prediction struct {
	Intent     string          `json:"intent"`
	Confidence float64         `json:"confidence"`
	Entities   []entities.Span `json:"entities,omitempty"`

	// Selectors maps response-selector name (e.g. "faq") to that
	// selector's prediction.
	Selectors map[string]SelectorPrediction `json:"response_selectors,omitempty"`

	// Tokens is the model's own tokenization of the utterance, when it
	// exposes one. Evaluation falls back to whitespace tokenization
	// otherwise.
	Tokens []entities.Token `json:"tokens,omitempty"`
}

// Model is a trained NLU model.
type Model interface {
	Predict(ctx context.Context, utterance string) (*Prediction, error)
}

// Trainer produces Models from a configuration and training data. It is
// an external collaborator; a failed training run yields a
// *TrainingError.
type Trainer interface {
	Train(ctx context.Context, config Config, data *dataset.Dataset) (Model, error)
}

// TrainingError reports that a trainer rejected a configuration or
// dataset. In a sweep it marks the run as failed without aborting the
// sweep.
type TrainingError struct {
	Config string
	Err    error
}

func (e *TrainingError) Error() string {
	return fmt.Sprintf("nlu: training config %q: %v", e.Config, e.Err)
}

func (e *TrainingError) Unwrap() error {
	return e.Err
}

// Config is a named pipeline configuration passed through to the Trainer.
// Pipeline content is opaque to the evaluation core.
type Config struct {
	Name     string           `json:"name" yaml:"name" mapstructure:"name"`
	Language string           `json:"language,omitempty" yaml:"language,omitempty" mapstructure:"language"`
	Pipeline []map[string]any `json:"pipeline,omitempty" yaml:"pipeline,omitempty" mapstructure:"pipeline"`
}

// ParseConfig decodes a loosely-typed configuration document (for example
// a parsed YAML file) into a Config.
func ParseConfig(doc map[string]any) (Config, error) {
	var cfg Config
	if err := mapstructure.Decode(doc, &cfg); err != nil {
		return Config{}, fmt.Errorf("nlu: decoding config: %w", err)
	}
	if cfg.Name == "" {
		return Config{}, fmt.Errorf("nlu: config has no name")
	}
	return cfg, nil
}
