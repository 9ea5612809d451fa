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
	"reflect"

	"github.com/converseml/evalkit/evaluation"
	itelemetry "github.com/converseml/evalkit/internal/telemetry"
)

// Model is a trained dialogue model: given the tracked conversation
// state it predicts the next system action.
type Model interface {
	PredictNextAction(ctx context.Context, tracker *Tracker) (string, error)
}

// Runner replays test stories against a dialogue model.
type Runner struct {
	Model Model

	// StopOnFailure ends a story's replay at its first mismatch. The
	// default keeps replaying along the expected trajectory so one
	// pass surfaces every mismatch in the story.
	StopOnFailure bool
}

// Replay runs one story through the model. Action predictions are
// recorded into counts for the aggregate action confusion matrix. After a
// mismatch the conversation continues along the expected trajectory, not
// the model's actual output, so all remaining mismatches still surface;
// the terminal status stays Mismatched regardless.
func (r *Runner) Replay(ctx context.Context, s *Story, counts *evaluation.ConfusionCounts) Outcome {
	outcome := Outcome{Story: s, Name: s.Name, Status: StatusPending}
	tracker := NewTracker()

	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return errored(outcome, &ReplayError{Story: s.Name, StepIndex: i, Err: err})
		}

		switch step := step.(type) {
		case UserTurn:
			if step.Text == "" && step.Intent == "" {
				return errored(outcome, &ReplayError{
					Story: s.Name, StepIndex: i,
					Err: fmt.Errorf("user turn has neither text nor intent"),
				})
			}
			tracker.ApplyUser(step)

		case ActionTurn:
			if step.Action == "" {
				return errored(outcome, &ReplayError{
					Story: s.Name, StepIndex: i,
					Err: fmt.Errorf("action turn has no action name"),
				})
			}
			outcome.Status = StatusPredicting
			predicted, err := r.Model.PredictNextAction(ctx, tracker)
			if err != nil {
				return errored(outcome, &ReplayError{Story: s.Name, StepIndex: i, Err: err})
			}
			counts.Observe(step.Action, predicted)
			if predicted != step.Action {
				outcome.Mismatches = append(outcome.Mismatches, Mismatch{
					StepIndex: i,
					Kind:      MismatchAction,
					Expected:  step.Action,
					Actual:    predicted,
				})
				if r.StopOnFailure {
					return finish(outcome)
				}
			}
			tracker.ApplyAction(step.Action)

		case SlotAssertion:
			if step.Name == "" {
				return errored(outcome, &ReplayError{
					Story: s.Name, StepIndex: i,
					Err: fmt.Errorf("slot assertion has no slot name"),
				})
			}
			actual := tracker.Slots[step.Name]
			if !reflect.DeepEqual(actual, step.Value) {
				outcome.Mismatches = append(outcome.Mismatches, Mismatch{
					StepIndex: i,
					Kind:      MismatchSlot,
					Expected:  fmt.Sprintf("%s=%v", step.Name, step.Value),
					Actual:    fmt.Sprintf("%s=%v", step.Name, actual),
				})
				if r.StopOnFailure {
					return finish(outcome)
				}
			}
			// Continue from the expected state either way.
			tracker.SetSlot(step.Name, step.Value)

		case ActiveLoopAssertion:
			if tracker.ActiveLoop != step.Name {
				outcome.Mismatches = append(outcome.Mismatches, Mismatch{
					StepIndex: i,
					Kind:      MismatchActiveLoop,
					Expected:  step.Name,
					Actual:    tracker.ActiveLoop,
				})
				if r.StopOnFailure {
					return finish(outcome)
				}
			}
			tracker.ActiveLoop = step.Name

		default:
			return errored(outcome, &ReplayError{
				Story: s.Name, StepIndex: i,
				Err: fmt.Errorf("unknown step type %T", step),
			})
		}
	}

	return finish(outcome)
}

func finish(outcome Outcome) Outcome {
	if len(outcome.Mismatches) > 0 {
		outcome.Status = StatusMismatched
		return outcome
	}
	outcome.Status = StatusMatched
	outcome.Passed = true
	return outcome
}

func errored(outcome Outcome, err *ReplayError) Outcome {
	outcome.Status = StatusErrored
	outcome.Error = err.Error()
	return outcome
}

// Evaluate replays a batch of test stories and aggregates the action
// confusion counts across all of them. Per-story errors yield Errored
// outcomes; only an empty batch is rejected outright.
func Evaluate(ctx context.Context, model Model, stories []*Story) ([]Outcome, *evaluation.ConfusionCounts, error) {
	if len(stories) == 0 {
		return nil, nil, fmt.Errorf("story: empty story batch: %w", evaluation.ErrInvalidInput)
	}

	span := itelemetry.StartSpan(ctx, "story.evaluate")
	defer span.End()

	runner := &Runner{Model: model}
	counts := evaluation.NewConfusionCounts()

	outcomes := make([]Outcome, 0, len(stories))
	for _, s := range stories {
		outcome := runner.Replay(ctx, s, counts)
		outcomes = append(outcomes, outcome)
		itelemetry.LogStoryOutcome(ctx, outcome.Name, string(outcome.Status), len(outcome.Mismatches))
	}

	return outcomes, counts, nil
}

// Failed filters the outcomes that did not pass, preserving order. This
// is what gets persisted as the failed-stories artifact.
func Failed(outcomes []Outcome) []Outcome {
	var failed []Outcome
	for _, o := range outcomes {
		if !o.Passed {
			failed = append(failed, o)
		}
	}
	return failed
}
