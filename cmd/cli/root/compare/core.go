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

package compare

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/converseml/evalkit/cmd/cli/root"
	"github.com/converseml/evalkit/evaluation"
	"github.com/converseml/evalkit/story"
)

type compareCoreFlags struct {
	sweepFlags
	train      string
	test       string
	maxHistory int
}

var coreFlags compareCoreFlags

var coreCmd = &cobra.Command{
	Use:   "core",
	Short: "Compare dialogue policy configurations.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return coreFlags.run(cmd)
	},
}

func init() {
	CompareCmd.AddCommand(coreCmd)
	registerSweepFlags(coreCmd, &coreFlags.sweepFlags)

	coreCmd.Flags().StringVar(&coreFlags.train, "train", "", "Training stories (YAML)")
	coreCmd.Flags().StringVar(&coreFlags.test, "test", "", "Test stories replayed against every trained policy (YAML)")
	coreCmd.Flags().IntVar(&coreFlags.maxHistory, "max-history", 0, "Event window the memoization policy keys on (0 = full history)")

	coreCmd.MarkFlagRequired("train")
	coreCmd.MarkFlagRequired("test")
}

func (f *compareCoreFlags) run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	training, err := story.Load(f.train)
	if err != nil {
		return err
	}
	test, err := story.Load(f.test)
	if err != nil {
		return err
	}

	var configs []story.Config
	for _, path := range f.configs {
		config, err := loadPolicyConfig(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping config %s: %v\n", path, err)
			continue
		}
		configs = append(configs, config)
	}
	if len(configs) == 0 {
		return fmt.Errorf("no readable configs to compare")
	}

	trainer := story.MemoizationTrainer{MaxHistory: f.maxHistory}
	summary, err := story.Compare(ctx, trainer, configs, training, test, story.CompareOptions{
		Percentages: f.percentages,
		Runs:        f.runs,
		Seed:        f.seed,
		Workers:     f.workers,
		Timeout:     f.timeout,
	})
	if err != nil {
		return err
	}

	root.PrintComparisonSummary(summary)
	return root.SaveRun(ctx, evaluation.RunComparison, nil, summary)
}

// loadPolicyConfig reads a policy configuration file, defaulting a
// missing name to the file's base name.
func loadPolicyConfig(path string) (story.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return story.Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return story.Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	var config story.Config
	if err := mapstructure.Decode(doc, &config); err != nil {
		return story.Config{}, fmt.Errorf("decoding config %s: %w", path, err)
	}
	if config.Name == "" {
		config.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return config, nil
}
