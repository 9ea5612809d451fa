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

import "strings"

// ActionDeactivateLoop deactivates the running form loop when executed.
const ActionDeactivateLoop = "action_deactivate_loop"

// EventType classifies tracker events.
type EventType string

const (
	EventUser   EventType = "user"
	EventAction EventType = "action"
)

// Event is one entry in the conversation log.
type Event struct {
	Type   EventType `json:"type"`
	Text   string    `json:"text,omitempty"`
	Intent string    `json:"intent,omitempty"`
	Action string    `json:"action,omitempty"`
}

// Tracker is the conversation state a dialogue model predicts from: the
// event log, the current slot values and the active form loop.
type Tracker struct {
	Events     []Event        `json:"events"`
	Slots      map[string]any `json:"slots"`
	ActiveLoop string         `json:"active_loop,omitempty"`
}

// NewTracker returns an empty conversation state.
func NewTracker() *Tracker {
	return &Tracker{Slots: make(map[string]any)}
}

// ApplyUser records a user turn. Entities auto-fill the slot sharing
// their type name.
func (t *Tracker) ApplyUser(turn UserTurn) {
	t.Events = append(t.Events, Event{Type: EventUser, Text: turn.Text, Intent: turn.Intent})
	for _, span := range turn.Entities {
		t.Slots[span.Type] = span.Text
	}
}

// ApplyAction records an executed system action and its loop side
// effects: form actions activate their loop, ActionDeactivateLoop clears
// it.
func (t *Tracker) ApplyAction(action string) {
	t.Events = append(t.Events, Event{Type: EventAction, Action: action})
	switch {
	case action == ActionDeactivateLoop:
		t.ActiveLoop = ""
	case strings.HasSuffix(action, "_form"):
		t.ActiveLoop = action
	}
}

// SetSlot overwrites one slot value.
func (t *Tracker) SetSlot(name string, value any) {
	t.Slots[name] = value
}
