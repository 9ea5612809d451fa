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

package dataset

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func syntheticDataset(perIntent map[string]int) *Dataset {
	d := &Dataset{}
	for _, intent := range []string{"greet", "goodbye", "book_flight"} {
		for i := 0; i < perIntent[intent]; i++ {
			d.Examples = append(d.Examples, Example{
				Text:   fmt.Sprintf("%s example %d", intent, i),
				Intent: intent,
			})
		}
	}
	return d
}

func TestSplitIsDeterministic(t *testing.T) {
	d := syntheticDataset(map[string]int{"greet": 10, "goodbye": 10, "book_flight": 5})
	splitter := SeededSplitter{Seed: 42}

	_, test1 := splitter.Split(d, 0.2)
	_, test2 := splitter.Split(d, 0.2)

	if diff := cmp.Diff(test1, test2); diff != "" {
		t.Errorf("same seed produced different test partitions (-first +second):\n%s", diff)
	}

	_, test3 := SeededSplitter{Seed: 43}.Split(d, 0.2)
	if diff := cmp.Diff(test1, test3); diff == "" {
		t.Errorf("different seeds produced identical test partitions")
	}
}

func TestSplitIsStratified(t *testing.T) {
	d := syntheticDataset(map[string]int{"greet": 10, "goodbye": 10, "book_flight": 10})

	train, test := SeededSplitter{Seed: 7}.Split(d, 0.2)

	if got, want := test.Len(), 6; got != want {
		t.Fatalf("test set has %d examples, want %d", got, want)
	}
	if got, want := train.Len(), 24; got != want {
		t.Fatalf("train set has %d examples, want %d", got, want)
	}
	counts := make(map[string]int)
	for _, e := range test.Examples {
		counts[e.Intent]++
	}
	for _, intent := range d.Intents() {
		if counts[intent] != 2 {
			t.Errorf("test set has %d %q examples, want 2", counts[intent], intent)
		}
	}
}

func TestSplitKeepsSingletonIntentsInTraining(t *testing.T) {
	d := syntheticDataset(map[string]int{"greet": 1, "goodbye": 4})

	train, test := SeededSplitter{Seed: 1}.Split(d, 0.5)

	for _, e := range test.Examples {
		if e.Intent == "greet" {
			t.Errorf("singleton intent %q ended up in the test set", e.Intent)
		}
	}
	found := false
	for _, e := range train.Examples {
		if e.Intent == "greet" {
			found = true
		}
	}
	if !found {
		t.Errorf("singleton intent missing from the training set")
	}
}

func TestExclude(t *testing.T) {
	d := syntheticDataset(map[string]int{"greet": 8, "goodbye": 4, "book_flight": 1})
	splitter := SeededSplitter{Seed: 99}

	excluded := splitter.Exclude(d, 0.5)

	counts := make(map[string]int)
	for _, e := range excluded.Examples {
		counts[e.Intent]++
	}
	want := map[string]int{"greet": 4, "goodbye": 2, "book_flight": 1}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("Exclude(0.5) counts mismatch (-want +got):\n%s", diff)
	}

	if got := splitter.Exclude(d, 0); got.Len() != d.Len() {
		t.Errorf("Exclude(0) dropped examples: %d of %d left", got.Len(), d.Len())
	}
}

func TestKFoldIsTruePartition(t *testing.T) {
	d := syntheticDataset(map[string]int{"greet": 7, "goodbye": 6, "book_flight": 5})

	folds, err := KFold(d, 5, 11)
	if err != nil {
		t.Fatalf("KFold() failed: %v", err)
	}
	if got, want := len(folds), 5; got != want {
		t.Fatalf("KFold() returned %d folds, want %d", got, want)
	}

	seen := make(map[string]int)
	for i, fold := range folds {
		if got, want := fold.Train.Len()+fold.Test.Len(), d.Len(); got != want {
			t.Errorf("fold %d covers %d examples, want %d", i, got, want)
		}
		for _, e := range fold.Test.Examples {
			seen[e.Text]++
		}
	}

	// Every example lands in exactly one test fold.
	if got, want := len(seen), d.Len(); got != want {
		t.Errorf("test folds cover %d distinct examples, want %d", got, want)
	}
	for text, n := range seen {
		if n != 1 {
			t.Errorf("example %q appears in %d test folds, want 1", text, n)
		}
	}
}

func TestKFoldErrors(t *testing.T) {
	d := syntheticDataset(map[string]int{"greet": 3})

	if _, err := KFold(d, 1, 0); err == nil {
		t.Errorf("KFold(k=1) succeeded, want error")
	}
	if _, err := KFold(d, 5, 0); err == nil {
		t.Errorf("KFold() with fewer examples than folds succeeded, want error")
	}
}
