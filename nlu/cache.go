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
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedModel wraps a Model with a bounded LRU over utterance text.
// Evaluation sets routinely repeat utterances (cross-validation reuses
// examples across sweeps of the same model) and inference dominates run
// time, so memoizing predictions is worthwhile. Predictions are treated
// as immutable by all callers.
type CachedModel struct {
	model Model
	cache *lru.Cache[string, *Prediction]
}

// NewCachedModel wraps model with a cache of at most size predictions.
func NewCachedModel(model Model, size int) (*CachedModel, error) {
	cache, err := lru.New[string, *Prediction](size)
	if err != nil {
		return nil, err
	}
	return &CachedModel{model: model, cache: cache}, nil
}

// Predict returns the cached prediction for utterance or delegates to the
// wrapped model. Errors are never cached.
func (c *CachedModel) Predict(ctx context.Context, utterance string) (*Prediction, error) {
	if prediction, ok := c.cache.Get(utterance); ok {
		return prediction, nil
	}
	prediction, err := c.model.Predict(ctx, utterance)
	if err != nil {
		return nil, err
	}
	c.cache.Add(utterance, prediction)
	return prediction, nil
}

// Len returns the number of cached predictions.
func (c *CachedModel) Len() int {
	return c.cache.Len()
}
