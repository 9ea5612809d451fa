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
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"
	"gopkg.in/yaml.v3"
)

// schemaJSON validates the document shape before decoding. An unreadable
// or invalid dataset is fatal up front, unlike per-example scoring errors.
const schemaJSON = `{
	"type": "object",
	"required": ["examples"],
	"properties": {
		"examples": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["text", "intent"],
				"properties": {
					"text": {"type": "string", "minLength": 1},
					"intent": {"type": "string", "minLength": 1},
					"entities": {
						"type": "array",
						"items": {
							"type": "object",
							"required": ["start", "end", "entity"],
							"properties": {
								"start": {"type": "integer", "minimum": 0},
								"end": {"type": "integer", "minimum": 0},
								"entity": {"type": "string", "minLength": 1},
								"value": {"type": "string"}
							}
						}
					}
				}
			}
		}
	}
}`

var datasetSchema = mustResolveSchema(schemaJSON)

func mustResolveSchema(raw string) *jsonschema.Resolved {
	var schema jsonschema.Schema
	if err := json.Unmarshal([]byte(raw), &schema); err != nil {
		panic(fmt.Sprintf("dataset: invalid embedded schema: %v", err))
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("dataset: unresolvable embedded schema: %v", err))
	}
	return resolved
}

// Parse decodes and validates a YAML dataset document.
func Parse(data []byte) (*Dataset, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("dataset: unreadable document: %w", err)
	}
	if err := datasetSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("dataset: invalid document: %w", err)
	}

	var d Dataset
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("dataset: decoding document: %w", err)
	}
	return &d, nil
}

// Load reads a YAML dataset file.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: reading %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, path)
	}
	return d, nil
}
