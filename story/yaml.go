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
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// schemaJSON validates the document shape before steps are decoded; step
// content is checked step by step for precise error positions.
const schemaJSON = `{
	"type": "object",
	"required": ["stories"],
	"properties": {
		"stories": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["story", "steps"],
				"properties": {
					"story": {"type": "string", "minLength": 1},
					"steps": {
						"type": "array",
						"minItems": 1,
						"items": {"type": ["object", "null"]}
					}
				}
			}
		}
	}
}`

var storySchema = mustResolveSchema(schemaJSON)

func mustResolveSchema(raw string) *jsonschema.Resolved {
	var schema jsonschema.Schema
	if err := json.Unmarshal([]byte(raw), &schema); err != nil {
		panic(fmt.Sprintf("story: invalid embedded schema: %v", err))
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("story: unresolvable embedded schema: %v", err))
	}
	return resolved
}

type rawDocument struct {
	Stories []rawStory `yaml:"stories"`
}

type rawStory struct {
	Story string           `yaml:"story"`
	Steps []map[string]any `yaml:"steps"`
}

// Parse decodes and validates a YAML test-story document.
func Parse(data []byte) ([]*Story, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("story: unreadable document: %w", err)
	}
	if err := storySchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("story: invalid document: %w", err)
	}

	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("story: decoding document: %w", err)
	}

	stories := make([]*Story, 0, len(raw.Stories))
	for _, rs := range raw.Stories {
		s := &Story{Name: rs.Story}
		for i, stepDoc := range rs.Steps {
			step, err := parseStep(stepDoc)
			if err != nil {
				return nil, fmt.Errorf("story: %q step %d: %w", rs.Story, i, err)
			}
			s.Steps = append(s.Steps, step)
		}
		stories = append(stories, s)
	}
	return stories, nil
}

func parseStep(doc map[string]any) (Step, error) {
	switch {
	case hasKey(doc, "user") || hasKey(doc, "intent"):
		turn := UserTurn{}
		if text, ok := doc["user"].(string); ok {
			turn.Text = text
		}
		if intent, ok := doc["intent"].(string); ok {
			turn.Intent = intent
		}
		if rawEntities, ok := doc["entities"]; ok {
			if err := mapstructure.Decode(rawEntities, &turn.Entities); err != nil {
				return nil, fmt.Errorf("decoding entities: %w", err)
			}
		}
		if turn.Text == "" && turn.Intent == "" {
			return nil, fmt.Errorf("user step has neither text nor intent")
		}
		return turn, nil

	case hasKey(doc, "action"):
		action, ok := doc["action"].(string)
		if !ok || action == "" {
			return nil, fmt.Errorf("action step has no action name")
		}
		return ActionTurn{Action: action}, nil

	case hasKey(doc, "slot_was_set"):
		var assertion SlotAssertion
		if err := mapstructure.Decode(doc["slot_was_set"], &assertion); err != nil {
			return nil, fmt.Errorf("decoding slot assertion: %w", err)
		}
		if assertion.Name == "" {
			return nil, fmt.Errorf("slot assertion has no slot name")
		}
		return assertion, nil

	case hasKey(doc, "active_loop"):
		// "active_loop: null" asserts that no loop is active.
		name, _ := doc["active_loop"].(string)
		return ActiveLoopAssertion{Name: name}, nil

	default:
		return nil, fmt.Errorf("unrecognized step keys %v", keysOf(doc))
	}
}

func hasKey(doc map[string]any, key string) bool {
	_, ok := doc[key]
	return ok
}

func keysOf(doc map[string]any) []string {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	return keys
}

// Load reads a YAML test-story file.
func Load(path string) ([]*Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("story: reading %s: %w", path, err)
	}
	stories, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, path)
	}
	return stories, nil
}
