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

// Package test implements `evalkit test`.
package test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/converseml/evalkit/cmd/cli/root"
	"github.com/converseml/evalkit/evaluation"
	"github.com/converseml/evalkit/nlu"
)

type testFlags struct {
	data    string
	configs []string
	stories string
	train   string
}

var allFlags testFlags

// TestCmd groups the evaluation subcommands. Invoked directly it runs
// both the story replay and the NLU evaluation in one pass.
var TestCmd = &cobra.Command{
	Use:   "test",
	Short: "Evaluate an assistant against test data.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if allFlags.stories == "" && allFlags.data == "" {
			return fmt.Errorf("nothing to evaluate: pass --stories, or --data with --config, or use a subcommand")
		}

		if allFlags.stories != "" {
			core := testCoreFlags{stories: allFlags.stories, train: allFlags.train}
			if err := core.run(cmd); err != nil {
				return err
			}
		}
		if allFlags.data != "" {
			if len(allFlags.configs) == 0 {
				return fmt.Errorf("--data needs at least one --config")
			}
			n := testNLUFlags{
				data:         allFlags.data,
				configs:      allFlags.configs,
				trainer:      "keyword",
				folds:        nlu.DefaultFolds,
				testFraction: 0.2,
			}
			return n.run(cmd)
		}
		return nil
	},
}

func init() {
	root.RootCmd.AddCommand(TestCmd)

	TestCmd.Flags().StringVarP(&allFlags.data, "data", "d", "", "Annotated NLU dataset (YAML)")
	TestCmd.Flags().StringArrayVarP(&allFlags.configs, "config", "c", nil, "Pipeline configuration file; repeat to compare configs")
	TestCmd.Flags().StringVarP(&allFlags.stories, "stories", "s", "", "Test stories to replay (YAML)")
	TestCmd.Flags().StringVar(&allFlags.train, "train", "", "Training stories for the memoization policy (defaults to the test stories)")
}

// loadNLUConfig reads a pipeline configuration file. A missing name
// defaults to the file's base name so configs can be compared by file.
func loadNLUConfig(path string) (nlu.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nlu.Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nlu.Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if _, ok := doc["name"]; !ok {
		doc["name"] = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return nlu.ParseConfig(doc)
}

func printReport(name string, report *evaluation.Report) {
	if report == nil {
		return
	}
	fmt.Printf("%s: precision %.3f  recall %.3f  f1 %.3f  (support %d)\n",
		name, report.Weighted.Precision, report.Weighted.Recall, report.Weighted.F1, report.Weighted.Support)
}
