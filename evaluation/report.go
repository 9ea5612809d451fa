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

// Metrics holds precision, recall, F1 and support for one label or one
// aggregate view.
type Metrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1-score"`
	Support   int     `json:"support"`
}

// Report maps each label to its metrics together with micro, macro and
// support-weighted averages. A Report is never mutated after NewReport
// returns it.
type Report struct {
	Labels   map[string]Metrics `json:"labels"`
	Micro    Metrics            `json:"micro_avg"`
	Macro    Metrics            `json:"macro_avg"`
	Weighted Metrics            `json:"weighted_avg"`
}

// F1Score computes the harmonic mean of precision and recall. It is 0 when
// precision+recall is 0, never dividing by zero.
func F1Score(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

// NewReport derives a Report from accumulated counts. Labels passed in
// exclude are left out of both the per-label section and the averages;
// the entity scorer uses this to drop the null tag.
func NewReport(counts *ConfusionCounts, exclude ...string) *Report {
	excluded := make(map[string]bool, len(exclude))
	for _, label := range exclude {
		excluded[label] = true
	}

	report := &Report{Labels: make(map[string]Metrics)}

	var microTP, microFP, microFN int
	var macroP, macroR, macroF float64
	var weightedP, weightedR, weightedF float64
	totalSupport := 0

	labels := counts.Labels()
	for _, label := range labels {
		if excluded[label] {
			continue
		}
		lc := counts.Counts[label]
		m := labelMetrics(lc)
		report.Labels[label] = m

		microTP += lc.TruePositives
		microFP += lc.FalsePositives
		microFN += lc.FalseNegatives

		macroP += m.Precision
		macroR += m.Recall
		macroF += m.F1

		weightedP += m.Precision * float64(m.Support)
		weightedR += m.Recall * float64(m.Support)
		weightedF += m.F1 * float64(m.Support)
		totalSupport += m.Support
	}

	report.Micro = labelMetrics(LabelCounts{
		TruePositives:  microTP,
		FalsePositives: microFP,
		FalseNegatives: microFN,
	})

	if n := len(report.Labels); n > 0 {
		report.Macro = Metrics{
			Precision: macroP / float64(n),
			Recall:    macroR / float64(n),
			F1:        macroF / float64(n),
			Support:   totalSupport,
		}
	}
	if totalSupport > 0 {
		report.Weighted = Metrics{
			Precision: weightedP / float64(totalSupport),
			Recall:    weightedR / float64(totalSupport),
			F1:        weightedF / float64(totalSupport),
			Support:   totalSupport,
		}
	}

	return report
}

func labelMetrics(lc LabelCounts) Metrics {
	var precision, recall float64
	if predicted := lc.TruePositives + lc.FalsePositives; predicted > 0 {
		precision = float64(lc.TruePositives) / float64(predicted)
	}
	if support := lc.Support(); support > 0 {
		recall = float64(lc.TruePositives) / float64(support)
	}
	return Metrics{
		Precision: precision,
		Recall:    recall,
		F1:        F1Score(precision, recall),
		Support:   lc.Support(),
	}
}
