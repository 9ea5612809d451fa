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
	"context"
	"fmt"
	"strings"
)

// ActionListen is the default action predicted when a conversation state
// was never seen in training.
const ActionListen = "action_listen"

// Config is a named dialogue policy configuration passed through to the
// Trainer; policy content is opaque to the evaluation core.
type Config struct {
	Name     string           `json:"name" yaml:"name" mapstructure:"name"`
	Policies []map[string]any `json:"policies,omitempty" yaml:"policies,omitempty" mapstructure:"policies"`
}

// Trainer produces dialogue Models from training stories. It is an
// external collaborator.
type Trainer interface {
	Train(ctx context.Context, config Config, training []*Story) (Model, error)
}

// MemoizationTrainer is a reference Trainer with no external
// dependencies: it memorizes every conversation state seen in the
// training stories together with the action that followed, and predicts
// ActionListen for unseen states. It exercises the replay harness end to
// end and serves as a floor baseline in policy comparisons.
type MemoizationTrainer struct {
	// MaxHistory bounds how many trailing events form the memorized
	// state signature. Zero means the full history.
	MaxHistory int
}

// Train walks each training story along its expected trajectory and
// records state -> next-action pairs.
func (tr MemoizationTrainer) Train(ctx context.Context, config Config, training []*Story) (Model, error) {
	if len(training) == 0 {
		return nil, fmt.Errorf("story: training config %q: no training stories", config.Name)
	}

	m := &memoizationModel{
		maxHistory: tr.MaxHistory,
		lookup:     make(map[string]string),
	}

	for _, s := range training {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tracker := NewTracker()
		for _, step := range s.Steps {
			switch step := step.(type) {
			case UserTurn:
				tracker.ApplyUser(step)
			case ActionTurn:
				m.lookup[m.signature(tracker)] = step.Action
				tracker.ApplyAction(step.Action)
			case SlotAssertion:
				tracker.SetSlot(step.Name, step.Value)
			case ActiveLoopAssertion:
				tracker.ActiveLoop = step.Name
			}
		}
	}

	return m, nil
}

type memoizationModel struct {
	maxHistory int
	lookup     map[string]string
}

func (m *memoizationModel) PredictNextAction(ctx context.Context, tracker *Tracker) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if action, ok := m.lookup[m.signature(tracker)]; ok {
		return action, nil
	}
	return ActionListen, nil
}

// signature flattens the trailing events of a tracker into a lookup key.
func (m *memoizationModel) signature(tracker *Tracker) string {
	events := tracker.Events
	if m.maxHistory > 0 && len(events) > m.maxHistory {
		events = events[len(events)-m.maxHistory:]
	}

	parts := make([]string, 0, len(events)+1)
	for _, e := range events {
		switch e.Type {
		case EventUser:
			parts = append(parts, "user:"+e.Intent+":"+e.Text)
		case EventAction:
			parts = append(parts, "action:"+e.Action)
		}
	}
	parts = append(parts, "loop:"+tracker.ActiveLoop)
	return strings.Join(parts, "|")
}
