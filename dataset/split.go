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
	"math"
	"math/rand"
)

// Splitter partitions a dataset into train and test sets. Implementations
// must be deterministic for a fixed seed.
type Splitter interface {
	Split(d *Dataset, testFraction float64) (train, test *Dataset)
}

// SeededSplitter is the default Splitter: a stratified split driven by a
// fixed-seed PRNG. Examples are grouped by intent; each group contributes
// its proportional share to the test set, so the label distribution of the
// split mirrors the dataset as closely as possible.
type SeededSplitter struct {
	Seed int64
}

// Split partitions d so that roughly testFraction of each intent's
// examples land in the test set. Intents with a single example stay in the
// training set. The same seed always produces the same partition.
func (s SeededSplitter) Split(d *Dataset, testFraction float64) (train, test *Dataset) {
	rng := rand.New(rand.NewSource(s.Seed))

	var trainIdx, testIdx []int
	groups := d.byIntent()
	for _, intent := range d.Intents() {
		indices := append([]int(nil), groups[intent]...)
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		n := len(indices)
		nTest := int(math.Round(float64(n) * testFraction))
		if nTest >= n {
			nTest = n - 1
		}
		testIdx = append(testIdx, indices[:nTest]...)
		trainIdx = append(trainIdx, indices[nTest:]...)
	}

	return d.subset(trainIdx), d.subset(testIdx)
}

// Exclude removes roughly fraction of each intent's examples, keeping at
// least one example per intent. It is applied to the training split only;
// test data is never excluded.
func (s SeededSplitter) Exclude(d *Dataset, fraction float64) *Dataset {
	if fraction <= 0 {
		return &Dataset{Examples: append([]Example(nil), d.Examples...)}
	}

	rng := rand.New(rand.NewSource(s.Seed))

	var keptIdx []int
	groups := d.byIntent()
	for _, intent := range d.Intents() {
		indices := append([]int(nil), groups[intent]...)
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		n := len(indices)
		keep := n - int(math.Round(float64(n)*fraction))
		if keep < 1 {
			keep = 1
		}
		keptIdx = append(keptIdx, indices[:keep]...)
	}

	return d.subset(keptIdx)
}

// Fold is one train/test pair of a k-fold partition.
type Fold struct {
	Train *Dataset
	Test  *Dataset
}

// KFold partitions d into k stratified folds. Every example lands in
// exactly one test fold: the fold test sets are a true partition of the
// dataset. The same seed always produces the same folds.
func KFold(d *Dataset, k int, seed int64) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("dataset: fold count must be at least 2, got %d", k)
	}
	if d.Len() < k {
		return nil, fmt.Errorf("dataset: %d examples cannot fill %d folds", d.Len(), k)
	}

	rng := rand.New(rand.NewSource(seed))

	assignment := make([]int, d.Len())
	next := 0
	groups := d.byIntent()
	for _, intent := range d.Intents() {
		indices := append([]int(nil), groups[intent]...)
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		// Round-robin across folds, carrying the cursor between
		// intents so small intents spread instead of piling into
		// fold 0.
		for _, idx := range indices {
			assignment[idx] = next % k
			next++
		}
	}

	folds := make([]Fold, k)
	for f := 0; f < k; f++ {
		var trainIdx, testIdx []int
		for idx, fold := range assignment {
			if fold == f {
				testIdx = append(testIdx, idx)
			} else {
				trainIdx = append(trainIdx, idx)
			}
		}
		folds[f] = Fold{Train: d.subset(trainIdx), Test: d.subset(testIdx)}
	}
	return folds, nil
}
