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

// ClassificationResult records one whole-example prediction: the example
// text, the annotated gold label, the predicted label and the model's
// confidence. The same shape is used for intents and for response-selector
// sub-intents (where the label is the full retrieval sub-label, e.g.
// "faq/ask_hours").
type ClassificationResult struct {
	Text       string  `json:"text,omitempty"`
	Gold       string  `json:"gold"`
	Predicted  string  `json:"predicted"`
	Confidence float64 `json:"confidence"`
}

// Correct reports whether the prediction matched the gold label.
func (r ClassificationResult) Correct() bool {
	return r.Gold == r.Predicted
}

// ScoreClassifications computes a Report over whole-example predictions.
func ScoreClassifications(results []ClassificationResult) *Report {
	counts := NewConfusionCounts()
	for _, r := range results {
		counts.Observe(r.Gold, r.Predicted)
	}
	return NewReport(counts)
}

// Misclassified returns the subset of results whose prediction was wrong,
// preserving input order. This is the errors set materialized alongside a
// Report.
func Misclassified(results []ClassificationResult) []ClassificationResult {
	var wrong []ClassificationResult
	for _, r := range results {
		if !r.Correct() {
			wrong = append(wrong, r)
		}
	}
	return wrong
}

// MergeSelectorResults flattens the per-selector result streams of multiple
// response selectors into one collection sharing a single label space. The
// combined stream is scored as one report rather than one report per
// selector.
func MergeSelectorResults(streams map[string][]ClassificationResult) []ClassificationResult {
	var merged []ClassificationResult
	for _, selector := range sortedKeys(streams) {
		merged = append(merged, streams[selector]...)
	}
	return merged
}

func sortedKeys(streams map[string][]ClassificationResult) []string {
	keys := make([]string, 0, len(streams))
	for k := range streams {
		keys = append(keys, k)
	}
	// Stable merge order keeps reports reproducible run to run.
	sort.Strings(keys)
	return keys
}
