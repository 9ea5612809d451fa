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

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestF1Score(t *testing.T) {
	if got := F1Score(0, 0); got != 0 {
		t.Errorf("F1Score(0, 0) = %v, want 0", got)
	}
	if got := F1Score(1, 1); got != 1 {
		t.Errorf("F1Score(1, 1) = %v, want 1", got)
	}
	want := 2.0 * 0.5 * 1.0 / 1.5
	if got := F1Score(0.5, 1.0); math.Abs(got-want) > 1e-9 {
		t.Errorf("F1Score(0.5, 1.0) = %v, want %v", got, want)
	}
}

func TestNewReportPerLabel(t *testing.T) {
	counts := NewConfusionCounts()
	// greet: 2 correct. bye: 1 correct, 1 predicted as greet.
	counts.Observe("greet", "greet")
	counts.Observe("greet", "greet")
	counts.Observe("bye", "bye")
	counts.Observe("bye", "greet")

	report := NewReport(counts)

	want := map[string]Metrics{
		"greet": {Precision: 2.0 / 3.0, Recall: 1, F1: F1Score(2.0/3.0, 1), Support: 2},
		"bye":   {Precision: 1, Recall: 0.5, F1: F1Score(1, 0.5), Support: 2},
	}
	if diff := cmp.Diff(want, report.Labels, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Labels mismatch (-want +got):\n%s", diff)
	}

	// Micro: 3 TP, 1 FP, 1 FN.
	if got, want := report.Micro.Precision, 0.75; math.Abs(got-want) > 1e-9 {
		t.Errorf("Micro.Precision = %v, want %v", got, want)
	}
	if got, want := report.Micro.Recall, 0.75; math.Abs(got-want) > 1e-9 {
		t.Errorf("Micro.Recall = %v, want %v", got, want)
	}
	if got, want := report.Macro.Support, 4; got != want {
		t.Errorf("Macro.Support = %v, want %v", got, want)
	}
	if got, want := report.Weighted.Support, 4; got != want {
		t.Errorf("Weighted.Support = %v, want %v", got, want)
	}
}

func TestNewReportExcludesLabels(t *testing.T) {
	counts := NewConfusionCounts()
	counts.Observe("", "")
	counts.Observe("location", "location")
	counts.Observe("location", "")

	report := NewReport(counts, "")

	if _, ok := report.Labels[""]; ok {
		t.Errorf("report contains excluded label, got %v", report.Labels)
	}
	m, ok := report.Labels["location"]
	if !ok {
		t.Fatalf("report missing label %q", "location")
	}
	if got, want := m.Recall, 0.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("location recall = %v, want %v", got, want)
	}
}

func TestNewReportZeroPredictions(t *testing.T) {
	counts := NewConfusionCounts()
	counts.Observe("greet", "bye")

	report := NewReport(counts)

	m := report.Labels["greet"]
	if m.Precision != 0 || m.Recall != 0 || m.F1 != 0 {
		t.Errorf("greet metrics = %+v, want all zero", m)
	}
	m = report.Labels["bye"]
	if m.F1 != 0 {
		t.Errorf("bye F1 = %v, want 0", m.F1)
	}
}

func TestConfusionCountsMerge(t *testing.T) {
	a := NewConfusionCounts()
	a.Observe("x", "x")
	a.Observe("x", "y")

	b := NewConfusionCounts()
	b.Observe("x", "x")
	b.Observe("y", "y")

	a.Merge(b)

	want := map[string]LabelCounts{
		"x": {TruePositives: 2, FalseNegatives: 1},
		"y": {TruePositives: 1, FalsePositives: 1},
	}
	if diff := cmp.Diff(want, a.Counts); diff != "" {
		t.Errorf("Counts mismatch (-want +got):\n%s", diff)
	}
	if got, want := a.Total(), 4; got != want {
		t.Errorf("Total() = %v, want %v", got, want)
	}
	if diff := cmp.Diff([]string{"x", "y"}, a.Labels()); diff != "" {
		t.Errorf("Labels() mismatch (-want +got):\n%s", diff)
	}
}
