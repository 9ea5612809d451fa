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

// Package evaluation provides the shared value objects and scoring
// primitives used by the NLU and dialogue test runners.
//
// The package is deliberately small and free of orchestration concerns:
// everything in it is a pure function of its inputs. ConfusionCounts
// accumulates per-label true-positive, false-positive and false-negative
// counters (plus the full gold-by-predicted matrix for confusion-matrix
// artifacts); Report derives precision, recall, F1 and support per label
// together with micro, macro and support-weighted averages. Reports are
// immutable once built.
//
// Basic usage:
//
//	counts := evaluation.NewConfusionCounts()
//	for _, r := range results {
//		counts.Observe(r.Gold, r.Predicted)
//	}
//	report := evaluation.NewReport(counts)
//
// Higher-level helpers cover whole-example classification scoring
// (ScoreClassifications) and merging multiple response-selector result
// streams into a single label space (MergeSelectorResults). Token-level
// entity scoring lives in the entities subpackage.
package evaluation
