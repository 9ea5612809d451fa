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

package test

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/converseml/evalkit/cmd/cli/root"
	"github.com/converseml/evalkit/evaluation"
	"github.com/converseml/evalkit/story"
)

type testCoreFlags struct {
	stories       string
	train         string
	maxHistory    int
	stopOnFailure bool
}

var coreFlags testCoreFlags

var coreCmd = &cobra.Command{
	Use:   "core",
	Short: "Replay test stories against a dialogue policy.",
	Long: `Replays end-to-end test stories and reports which conversations the
policy reproduces. Each story ends matched, mismatched or errored; the
aggregate action confusion yields per-action precision and recall.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return coreFlags.run(cmd)
	},
}

func init() {
	TestCmd.AddCommand(coreCmd)

	coreCmd.Flags().StringVarP(&coreFlags.stories, "stories", "s", "", "Test stories to replay (YAML)")
	coreCmd.Flags().StringVar(&coreFlags.train, "train", "", "Training stories for the memoization policy (defaults to the test stories)")
	coreCmd.Flags().IntVar(&coreFlags.maxHistory, "max-history", 0, "Event window the memoization policy keys on (0 = full history)")
	coreCmd.Flags().BoolVar(&coreFlags.stopOnFailure, "stop-on-failure", false, "End each story's replay at its first mismatch")

	coreCmd.MarkFlagRequired("stories")
}

func (f *testCoreFlags) run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	test, err := story.Load(f.stories)
	if err != nil {
		return err
	}
	if len(test) == 0 {
		return fmt.Errorf("no test stories in %s", f.stories)
	}

	training := test
	if f.train != "" {
		if training, err = story.Load(f.train); err != nil {
			return err
		}
	}

	trainer := story.MemoizationTrainer{MaxHistory: f.maxHistory}
	model, err := trainer.Train(ctx, story.Config{Name: "memoization"}, training)
	if err != nil {
		return err
	}

	runner := &story.Runner{Model: model, StopOnFailure: f.stopOnFailure}
	counts := evaluation.NewConfusionCounts()
	outcomes := make([]story.Outcome, 0, len(test))
	for _, s := range test {
		outcomes = append(outcomes, runner.Replay(ctx, s, counts))
	}

	passed := 0
	for _, outcome := range outcomes {
		if outcome.Passed {
			passed++
		}
	}
	fmt.Printf("%d/%d stories matched\n", passed, len(outcomes))

	for _, outcome := range story.Failed(outcomes) {
		fmt.Printf("story %q: %s\n", outcome.Name, outcome.Status)
		for _, mismatch := range outcome.Mismatches {
			fmt.Printf("  step %d (%s): expected %s, got %s\n",
				mismatch.StepIndex, mismatch.Kind, mismatch.Expected, mismatch.Actual)
		}
		if outcome.Error != "" {
			fmt.Printf("  %s\n", outcome.Error)
		}
	}

	printReport("action", evaluation.NewReport(counts))

	accuracy := float64(passed) / float64(len(outcomes))
	details := struct {
		Outcomes []story.Outcome              `json:"outcomes"`
		Actions  *evaluation.ConfusionCounts  `json:"actions"`
	}{Outcomes: outcomes, Actions: counts}
	return root.SaveRun(ctx, evaluation.RunStories, map[string]float64{"story_accuracy": accuracy}, details)
}
