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

// Package dataset holds labeled NLU training/evaluation data and the
// deterministic splitting primitives the evaluation runners rely on:
// stratified holdout splits, k-fold partitions and training-data
// exclusion. All randomness is derived from a caller-supplied seed, so
// the same seed always yields the same partitions.
package dataset

import (
	"sort"
	"strings"

	"github.com/converseml/evalkit/evaluation/entities"
)

// Example is one labeled utterance.
type Example struct {
	Text     string          `json:"text" yaml:"text"`
	Intent   string          `json:"intent" yaml:"intent"`
	Entities []entities.Span `json:"entities,omitempty" yaml:"entities,omitempty"`
}

// RetrievalIntent splits a retrieval-style intent label like
// "faq/ask_hours" into its selector name and reports whether the example
// targets a response selector.
func (e Example) RetrievalIntent() (selector string, ok bool) {
	selector, _, ok = strings.Cut(e.Intent, "/")
	if !ok {
		return "", false
	}
	return selector, true
}

// Dataset is an ordered collection of labeled examples. Order is
// significant: splits preserve it so that identical seeds yield identical
// partitions.
type Dataset struct {
	Examples []Example `json:"examples" yaml:"examples"`
}

// Len returns the number of examples.
func (d *Dataset) Len() int {
	return len(d.Examples)
}

// Intents returns the distinct intent labels in sorted order.
func (d *Dataset) Intents() []string {
	seen := make(map[string]bool)
	var intents []string
	for _, e := range d.Examples {
		if !seen[e.Intent] {
			seen[e.Intent] = true
			intents = append(intents, e.Intent)
		}
	}
	sort.Strings(intents)
	return intents
}

// byIntent groups example indices by intent, preserving dataset order
// within each group.
func (d *Dataset) byIntent() map[string][]int {
	groups := make(map[string][]int)
	for i, e := range d.Examples {
		groups[e.Intent] = append(groups[e.Intent], i)
	}
	return groups
}

// subset builds a new Dataset from the given indices, restoring original
// dataset order first.
func (d *Dataset) subset(indices []int) *Dataset {
	sort.Ints(indices)
	examples := make([]Example, 0, len(indices))
	for _, i := range indices {
		examples = append(examples, d.Examples[i])
	}
	return &Dataset{Examples: examples}
}
