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

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/converseml/evalkit/cmd/cli/root"
	"github.com/converseml/evalkit/dataset"
	"github.com/converseml/evalkit/evaluation"
	"github.com/converseml/evalkit/nlu"
)

type compareNLUFlags struct {
	sweepFlags
	data    string
	trainer string
}

var nluFlags compareNLUFlags

var nluCmd = &cobra.Command{
	Use:   "nlu",
	Short: "Compare NLU pipeline configurations.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return nluFlags.run(cmd)
	},
}

func init() {
	CompareCmd.AddCommand(nluCmd)
	registerSweepFlags(nluCmd, &nluFlags.sweepFlags)

	nluCmd.Flags().StringVarP(&nluFlags.data, "data", "d", "", "Annotated NLU dataset (YAML)")
	nluCmd.Flags().StringVar(&nluFlags.trainer, "trainer", "keyword", "Registered trainer to build models with")

	nluCmd.MarkFlagRequired("data")
}

func (f *compareNLUFlags) run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	data, err := dataset.Load(f.data)
	if err != nil {
		return err
	}
	trainer, err := nlu.LookupTrainer(f.trainer)
	if err != nil {
		return err
	}

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
		Timeout:     f.timeout,
	})
	if err != nil {
		return err
	}

	root.PrintComparisonSummary(summary)
	return root.SaveRun(ctx, evaluation.RunComparison, nil, summary)
}

// loadNLUConfig reads a pipeline configuration file, defaulting a
// missing name to the file's base name.
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
