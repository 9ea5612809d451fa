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

// Package story replays end-to-end test stories against a trained
// dialogue model. A test story scripts a conversation: user turns,
// expected system actions and assertions over the tracked conversation
// state. The runner compares the model's predicted next action with the
// scripted one at every action step and classifies each story as matched,
// mismatched or errored.
package story

import (
	"fmt"

	"github.com/converseml/evalkit/evaluation/entities"
)

// Step is one entry in a test story. Step order is significant: it
// defines the expected conversation trajectory.
type Step interface {
	step()
}

// UserTurn is a scripted user message with its gold intent and entity
// annotations.
type UserTurn struct {
	Text     string          `json:"text"`
	Intent   string          `json:"intent,omitempty"`
	Entities []entities.Span `json:"entities,omitempty"`
}

// ActionTurn is the system action the model is expected to predict next.
type ActionTurn struct {
	Action string `json:"action"`
}

// SlotAssertion checks that a slot currently holds the expected value.
type SlotAssertion struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// ActiveLoopAssertion checks which form loop is active; an empty Name
// asserts that no loop is active.
type ActiveLoopAssertion struct {
	Name string `json:"name"`
}

func (UserTurn) step()            {}
func (ActionTurn) step()          {}
func (SlotAssertion) step()       {}
func (ActiveLoopAssertion) step() {}

// Story is one named test story.
type Story struct {
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
}

// Status is the replay state of a story. Matched, Mismatched and Errored
// are terminal.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusPredicting Status = "PREDICTING"
	StatusMatched    Status = "MATCHED"
	StatusMismatched Status = "MISMATCHED"
	StatusErrored    Status = "ERRORED"
)

// MismatchKind distinguishes what a mismatch compared.
type MismatchKind string

const (
	MismatchAction     MismatchKind = "action"
	MismatchSlot       MismatchKind = "slot"
	MismatchActiveLoop MismatchKind = "active_loop"
)

// Mismatch records one divergence between the expected trajectory and the
// model's behavior or tracked state.
type Mismatch struct {
	StepIndex int          `json:"step_index"`
	Kind      MismatchKind `json:"kind"`
	Expected  string       `json:"expected"`
	Actual    string       `json:"actual"`
}

// Outcome is the result of replaying one story. It is created once per
// replay and never mutated afterwards.
type Outcome struct {
	Story      *Story     `json:"-"`
	Name       string     `json:"story"`
	Status     Status     `json:"status"`
	Passed     bool       `json:"passed"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// ReplayError reports malformed or unexpected step content encountered
// mid-replay. It produces an Errored outcome for the affected story
// without stopping the rest of the batch.
type ReplayError struct {
	Story     string
	StepIndex int
	Err       error
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("story: replaying %q step %d: %v", e.Story, e.StepIndex, e.Err)
}

func (e *ReplayError) Unwrap() error {
	return e.Err
}
