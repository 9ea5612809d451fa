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
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/converseml/evalkit/cmd/cli/root"
	"github.com/converseml/evalkit/dataset"
	"github.com/converseml/evalkit/evaluation"
	"github.com/converseml/evalkit/nlu"
)

type testNLUFlags struct {
	data            string
	configs         []string
	trainer         string
	crossValidation bool
	folds           int
	percentages     []int
	runs            int
	seed            int64
	workers         int
	testFraction    float64
}

var nluFlags testNLUFlags

var nluCmd = &cobra.Command{
	Use:   "nlu",
	Short: "Evaluate intent classification and entity extraction.",
	Long: `Evaluates an NLU pipeline against annotated examples.

With one config the data is split into train and test partitions and the
trained model is scored on the held-out examples. With --cross-validation
the whole dataset is scored across k folds instead. With several configs
the command switches to comparison mode and sweeps every config across
increasing training-data exclusion.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return nluFlags.run(cmd)
	},
	Args: cobra.NoArgs,
}

func init() {
	TestCmd.AddCommand(nluCmd)

	nluCmd.Flags().StringVarP(&nluFlags.data, "data", "d", "", "Annotated NLU dataset (YAML)")
	nluCmd.Flags().StringArrayVarP(&nluFlags.configs, "config", "c", nil, "Pipeline configuration file; repeat to compare configs")
	nluCmd.Flags().StringVar(&nluFlags.trainer, "trainer", "keyword", "Registered trainer to build models with")
	nluCmd.Flags().BoolVar(&nluFlags.crossValidation, "cross-validation", false, "Score with k-fold cross-validation instead of a train/test split")
	nluCmd.Flags().IntVar(&nluFlags.folds, "folds", nlu.DefaultFolds, "Number of cross-validation folds")
	nluCmd.Flags().IntSliceVar(&nluFlags.percentages, "percentages", nil, "Training exclusion percentages for comparison mode")
	nluCmd.Flags().IntVar(&nluFlags.runs, "runs", 0, "Repetitions per comparison cell")
	nluCmd.Flags().Int64Var(&nluFlags.seed, "seed", 0, "Seed for splits, folds and exclusion sampling")
	nluCmd.Flags().IntVar(&nluFlags.workers, "workers", 0, "Concurrent comparison workers (0 = half the CPUs)")
	nluCmd.Flags().Float64Var(&nluFlags.testFraction, "test-fraction", 0.2, "Held-out share for the single-config train/test split")

	nluCmd.MarkFlagRequired("data")
	nluCmd.MarkFlagRequired("config")
}

func (f *testNLUFlags) run(cmd *cobra.Command) error {
	data, err := dataset.Load(f.data)
	if err != nil {
		return err
	}
	trainer, err := nlu.LookupTrainer(f.trainer)
	if err != nil {
		return err
	}

	if len(f.configs) > 1 {
		return f.compare(cmd, trainer, data)
	}

	config, err := loadNLUConfig(f.configs[0])
	if err != nil {
		return err
	}

	if f.crossValidation {
		return f.crossValidate(cmd, trainer, config, data)
	}
	return f.holdout(cmd, trainer, config, data)
}

func (f *testNLUFlags) holdout(cmd *cobra.Command, trainer nlu.Trainer, config nlu.Config, data *dataset.Dataset) error {
	ctx := cmd.Context()

	train, test := dataset.SeededSplitter{Seed: f.seed}.Split(data, f.testFraction)
	model, err := trainer.Train(ctx, config, train)
	if err != nil {
		return err
	}

	result, err := nlu.Evaluate(ctx, model, test)
	if err != nil {
		return err
	}

	fmt.Printf("config %s, %d training / %d test examples\n", config.Name, len(train.Examples), len(test.Examples))
	printReport("intent", result.Intent)
	printReport("entity", result.Entity)
	printReport("response selection", result.ResponseSelection)
	if n := len(result.IntentErrors); n > 0 {
		fmt.Printf("%d misclassified intents:\n", n)
		for _, e := range result.IntentErrors {
			fmt.Printf("  %q: predicted %s (%.2f), annotated %s\n", e.Text, e.Predicted, e.Confidence, e.Gold)
		}
	}
	for _, failure := range result.AlignmentFailures {
		fmt.Fprintf(os.Stderr, "warning: entity alignment skipped for %q: %s\n", failure.Text, failure.Reason)
	}

	summary := map[string]float64{"intent_f1": result.Intent.Weighted.F1}
	if result.Entity != nil {
		summary["entity_f1"] = result.Entity.Weighted.F1
	}
	return root.SaveRun(ctx, evaluation.RunNLU, summary, result)
}

func (f *testNLUFlags) crossValidate(cmd *cobra.Command, trainer nlu.Trainer, config nlu.Config, data *dataset.Dataset) error {
	ctx := cmd.Context()

	result, err := nlu.CrossValidate(ctx, trainer, config, data, f.folds, f.seed)
	if err != nil {
		return err
	}

	fmt.Printf("config %s, %d-fold cross-validation on %d examples\n", config.Name, f.folds, len(data.Examples))
	fmt.Printf("intent f1: %.3f (std %.3f, %d folds)\n", result.Overall.MeanF1, result.Overall.StdF1, result.Overall.Folds)
	labels := make([]string, 0, len(result.Entity))
	for label := range result.Entity {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		stat := result.Entity[label]
		fmt.Printf("entity %s f1: %.3f (std %.3f)\n", label, stat.MeanF1, stat.StdF1)
	}

	summary := map[string]float64{"intent_f1": result.Overall.MeanF1}
	return root.SaveRun(ctx, evaluation.RunNLU, summary, result)
}

func (f *testNLUFlags) compare(cmd *cobra.Command, trainer nlu.Trainer, data *dataset.Dataset) error {
	ctx := cmd.Context()

	// An unreadable config is skipped with a warning, not fatal: one
	// broken candidate should not sink a long sweep.
	var configs []nlu.Config
	for _, path := range f.configs {
		config, err := loadNLUConfig(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping config %s: %v\n", path, err)
			continue
		}
		configs = append(configs, config)
	}
	if len(configs) == 0 {
		return fmt.Errorf("no readable configs to compare")
	}

	summary, err := nlu.Compare(ctx, trainer, configs, data, nlu.CompareOptions{
		Percentages: f.percentages,
		Runs:        f.runs,
		Seed:        f.seed,
		Workers:     f.workers,
	})
	if err != nil {
		return err
	}

	root.PrintComparisonSummary(summary)
	return root.SaveRun(ctx, evaluation.RunComparison, nil, summary)
}
