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

package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/converseml/evalkit/evaluation/entities"
)

const validDoc = `
examples:
  - text: near Alexanderplatz tonight
    intent: search_events
    entities:
      - start: 0
        end: 19
        entity: location
        value: near Alexanderplatz
      - start: 20
        end: 27
        entity: time
        value: tonight
  - text: what are your opening hours
    intent: faq/ask_hours
`

func TestParse(t *testing.T) {
	d, err := Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	want := &Dataset{Examples: []Example{
		{
			Text:   "near Alexanderplatz tonight",
			Intent: "search_events",
			Entities: []entities.Span{
				{Start: 0, End: 19, Type: "location", Text: "near Alexanderplatz"},
				{Start: 20, End: 27, Type: "time", Text: "tonight"},
			},
		},
		{Text: "what are your opening hours", Intent: "faq/ask_hours"},
	}}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInvalidDocuments(t *testing.T) {
	for name, doc := range map[string]string{
		"not yaml":       "examples: [unclosed",
		"missing intent": "examples:\n  - text: hello\n",
		"empty text":     "examples:\n  - text: \"\"\n    intent: greet\n",
		"bad entity":     "examples:\n  - text: hi\n    intent: greet\n    entities:\n      - start: 0\n",
	} {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("Parse(%s) succeeded, want error", name)
		}
	}
}

func TestRetrievalIntent(t *testing.T) {
	e := Example{Intent: "faq/ask_hours"}
	selector, ok := e.RetrievalIntent()
	if !ok || selector != "faq" {
		t.Errorf("RetrievalIntent() = (%q, %v), want (\"faq\", true)", selector, ok)
	}

	e = Example{Intent: "greet"}
	if _, ok := e.RetrievalIntent(); ok {
		t.Errorf("RetrievalIntent() on a plain intent reported a selector")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nlu.yml")
	if err := os.WriteFile(path, []byte(validDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got, want := d.Len(), 2; got != want {
		t.Errorf("Load() returned %d examples, want %d", got, want)
	}

	if _, err := Load(filepath.Join(dir, "missing.yml")); err == nil {
		t.Errorf("Load() of a missing file succeeded, want error")
	}
}
