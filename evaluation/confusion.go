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

package evaluation

import "sort"

// LabelCounts holds the raw counters for a single label.
type LabelCounts struct {
	TruePositives  int `json:"true_positives"`
	FalsePositives int `json:"false_positives"`
	FalseNegatives int `json:"false_negatives"`
}

// Support returns the number of gold occurrences of the label.
func (c LabelCounts) Support() int {
	return c.TruePositives + c.FalseNegatives
}

// ConfusionCounts accumulates gold/predicted observations. It keeps both
// per-label counters and the full gold-by-predicted matrix so that a
// confusion-matrix artifact can be rendered downstream without re-scoring.
//
// ConfusionCounts is not safe for concurrent use; each runner owns one
// instance and aggregation across runners goes through Merge.
type ConfusionCounts struct {
	// Counts maps label -> TP/FP/FN counters.
	Counts map[string]LabelCounts `json:"counts"`

	// Matrix maps gold label -> predicted label -> observation count.
	Matrix map[string]map[string]int `json:"matrix"`
}

// NewConfusionCounts returns an empty accumulator.
func NewConfusionCounts() *ConfusionCounts {
	return &ConfusionCounts{
		Counts: make(map[string]LabelCounts),
		Matrix: make(map[string]map[string]int),
	}
}

// Observe records one (gold, predicted) pair. A correct prediction is a
// true positive for the shared label; a wrong one is a false negative for
// the gold label and a false positive for the predicted label.
func (c *ConfusionCounts) Observe(gold, predicted string) {
	row, ok := c.Matrix[gold]
	if !ok {
		row = make(map[string]int)
		c.Matrix[gold] = row
	}
	row[predicted]++

	if gold == predicted {
		lc := c.Counts[gold]
		lc.TruePositives++
		c.Counts[gold] = lc
		return
	}

	lc := c.Counts[gold]
	lc.FalseNegatives++
	c.Counts[gold] = lc

	lc = c.Counts[predicted]
	lc.FalsePositives++
	c.Counts[predicted] = lc
}

// Merge folds other into c.
func (c *ConfusionCounts) Merge(other *ConfusionCounts) {
	if other == nil {
		return
	}
	for label, lc := range other.Counts {
		cur := c.Counts[label]
		cur.TruePositives += lc.TruePositives
		cur.FalsePositives += lc.FalsePositives
		cur.FalseNegatives += lc.FalseNegatives
		c.Counts[label] = cur
	}
	for gold, row := range other.Matrix {
		dst, ok := c.Matrix[gold]
		if !ok {
			dst = make(map[string]int)
			c.Matrix[gold] = dst
		}
		for predicted, n := range row {
			dst[predicted] += n
		}
	}
}

// Labels returns all observed labels in sorted order.
func (c *ConfusionCounts) Labels() []string {
	labels := make([]string, 0, len(c.Counts))
	for label := range c.Counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Total returns the number of recorded observations.
func (c *ConfusionCounts) Total() int {
	total := 0
	for _, row := range c.Matrix {
		for _, n := range row {
			total += n
		}
	}
	return total
}
