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

package nlu

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages available trainers by name, so CLI adapters can wire a
// trainer from configuration alone.
type Registry struct {
	mu       sync.RWMutex
	trainers map[string]Trainer
}

// NewRegistry creates an empty trainer registry.
func NewRegistry() *Registry {
	return &Registry{trainers: make(map[string]Trainer)}
}

// Register registers a trainer under a name.
func (r *Registry) Register(name string, trainer Trainer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.trainers[name]; exists {
		return fmt.Errorf("nlu: trainer already registered for %q", name)
	}
	r.trainers[name] = trainer
	return nil
}

// Get retrieves a trainer by name.
func (r *Registry) Get(name string) (Trainer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trainer, exists := r.trainers[name]
	if !exists {
		return nil, fmt.Errorf("nlu: no trainer registered for %q", name)
	}
	return trainer, nil
}

// List returns all registered trainer names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.trainers))
	for name := range r.trainers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global trainer registry.
var DefaultRegistry = NewRegistry()

// RegisterTrainer registers a trainer in the default registry.
func RegisterTrainer(name string, trainer Trainer) error {
	return DefaultRegistry.Register(name, trainer)
}

// LookupTrainer retrieves a trainer from the default registry.
func LookupTrainer(name string) (Trainer, error) {
	return DefaultRegistry.Get(name)
}
