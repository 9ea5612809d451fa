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

// Command evalkit evaluates conversational assistants: it replays test
// stories, scores intent and entity predictions and compares pipeline
// configurations.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/converseml/evalkit/cmd/cli/root"
	_ "github.com/converseml/evalkit/cmd/cli/root/compare"
	_ "github.com/converseml/evalkit/cmd/cli/root/test"
	"github.com/converseml/evalkit/telemetry"
)

func main() {
	ctx := context.Background()

	providers, err := telemetry.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry setup failed: %v\n", err)
		os.Exit(1)
	}
	providers.SetGlobalOtelProviders()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "telemetry shutdown failed: %v\n", err)
		}
	}()

	if err := root.RootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
