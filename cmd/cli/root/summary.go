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

package root

import (
	"fmt"

	"github.com/converseml/evalkit/comparison"
)

// PrintComparisonSummary writes one line per sweep cell: mean and
// standard deviation of the metric plus the failure count.
func PrintComparisonSummary(summary *comparison.Summary) {
	for _, config := range summary.Configs {
		for _, percentage := range summary.Percentages {
			agg, ok := summary.Results[config][percentage]
			if !ok {
				continue
			}
			line := fmt.Sprintf("%s @ %d%% excluded: %.3f (std %.3f, %d runs",
				config, percentage, agg.Mean, agg.Std, len(agg.Scores))
			if agg.Failures > 0 {
				line += fmt.Sprintf(", %d failed", agg.Failures)
			}
			fmt.Println(line + ")")
		}
	}
}
