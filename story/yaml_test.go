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

package story

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/converseml/evalkit/evaluation/entities"
)

const storyDoc = `
stories:
  - story: happy path
    steps:
      - user: hello there
        intent: greet
      - action: utter_greet
      - user: events near Alexanderplatz tonight
        intent: search_events
        entities:
          - start: 13
            end: 27
            entity: location
            value: Alexanderplatz
      - action: event_form
      - active_loop: event_form
      - slot_was_set:
          name: location
          value: Alexanderplatz
      - action: action_deactivate_loop
      - active_loop: null
`

func TestParse(t *testing.T) {
	stories, err := Parse([]byte(storyDoc))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if len(stories) != 1 {
		t.Fatalf("Parse() = %d stories, want 1", len(stories))
	}

	want := &Story{
		Name: "happy path",
		Steps: []Step{
			UserTurn{Text: "hello there", Intent: "greet"},
			ActionTurn{Action: "utter_greet"},
			UserTurn{
				Text:   "events near Alexanderplatz tonight",
				Intent: "search_events",
				Entities: []entities.Span{
					{Start: 13, End: 27, Type: "location", Text: "Alexanderplatz"},
				},
			},
			ActionTurn{Action: "event_form"},
			ActiveLoopAssertion{Name: "event_form"},
			SlotAssertion{Name: "location", Value: "Alexanderplatz"},
			ActionTurn{Action: ActionDeactivateLoop},
			ActiveLoopAssertion{Name: ""},
		},
	}
	if diff := cmp.Diff(want, stories[0]); diff != "" {
		t.Errorf("parsed story (-want +got):\n%s", diff)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "not yaml",
			doc:  "stories: [",
		},
		{
			name: "missing stories key",
			doc:  "rules: []",
		},
		{
			name: "story without name",
			doc: `
stories:
  - steps:
      - action: utter_greet
`,
		},
		{
			name: "story without steps",
			doc: `
stories:
  - story: empty
    steps: []
`,
		},
		{
			name: "unknown step keys",
			doc: `
stories:
  - story: bad step
    steps:
      - checkpoint: start
`,
		},
		{
			name: "empty user step",
			doc: `
stories:
  - story: bad user
    steps:
      - user: ""
`,
		},
		{
			name: "slot assertion without name",
			doc: `
stories:
  - story: bad slot
    steps:
      - user: hi
        intent: greet
      - slot_was_set:
          value: 42
`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.doc)); err == nil {
				t.Errorf("Parse() succeeded, want error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stories.yml")
	if err := os.WriteFile(path, []byte(storyDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	stories, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(stories) != 1 || stories[0].Name != "happy path" {
		t.Errorf("Load() = %+v, want one story named %q", stories, "happy path")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Errorf("Load() of missing file succeeded, want error")
	}
}
