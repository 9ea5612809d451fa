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

package entities

import (
	"fmt"

	"github.com/converseml/evalkit/evaluation"
)

// AlignedPair holds the gold and predicted taggings of one utterance over
// a shared tokenization.
type AlignedPair struct {
	Gold      TagSequence
	Predicted TagSequence
}

// Accumulate folds one utterance's token-level agreement into counts. A
// token is a true positive for type T when gold and predicted both tag it
// T, a false negative for the gold type and a false positive for the
// predicted type otherwise. Sequences must be token-aligned.
func Accumulate(counts *evaluation.ConfusionCounts, pair AlignedPair) error {
	if len(pair.Gold) != len(pair.Predicted) {
		return fmt.Errorf("entities: gold has %d tokens, predicted has %d: %w",
			len(pair.Gold), len(pair.Predicted), evaluation.ErrInvalidInput)
	}
	for i := range pair.Gold {
		counts.Observe(pair.Gold[i].Type, pair.Predicted[i].Type)
	}
	return nil
}

// Score computes the per-type entity report across a batch of aligned
// utterances. The null tag is tracked internally for precision/recall of
// real types but excluded from the report.
func Score(pairs []AlignedPair) (*evaluation.Report, error) {
	counts := evaluation.NewConfusionCounts()
	for _, pair := range pairs {
		if err := Accumulate(counts, pair); err != nil {
			return nil, err
		}
	}
	return evaluation.NewReport(counts, NoTag), nil
}
