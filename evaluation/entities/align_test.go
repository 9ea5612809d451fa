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

package entities

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWhitespaceTokenize(t *testing.T) {
	got := WhitespaceTokenize("near Alexanderplatz tonight")
	want := []Token{
		{Text: "near", Start: 0, End: 4},
		{Text: "Alexanderplatz", Start: 5, End: 19},
		{Text: "tonight", Start: 20, End: 27},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WhitespaceTokenize() mismatch (-want +got):\n%s", diff)
	}

	if got := WhitespaceTokenize("   "); got != nil {
		t.Errorf("WhitespaceTokenize(blank) = %v, want nil", got)
	}
}

func TestAlign(t *testing.T) {
	tokens := WhitespaceTokenize("near Alexanderplatz tonight")
	spans := []Span{
		{Start: 0, End: 19, Type: "location", Text: "near Alexanderplatz"},
		{Start: 20, End: 27, Type: "time", Text: "tonight"},
	}

	tags, err := Align(tokens, spans)
	if err != nil {
		t.Fatalf("Align() failed: %v", err)
	}

	want := []string{"location", "location", "time"}
	if diff := cmp.Diff(want, tags.Types()); diff != "" {
		t.Errorf("Align() tags mismatch (-want +got):\n%s", diff)
	}
}

func TestAlignUncoveredTokens(t *testing.T) {
	tokens := WhitespaceTokenize("show me flights to Berlin")
	spans := []Span{{Start: 19, End: 25, Type: "city", Text: "Berlin"}}

	tags, err := Align(tokens, spans)
	if err != nil {
		t.Fatalf("Align() failed: %v", err)
	}

	want := []string{NoTag, NoTag, NoTag, NoTag, "city"}
	if diff := cmp.Diff(want, tags.Types()); diff != "" {
		t.Errorf("Align() tags mismatch (-want +got):\n%s", diff)
	}
}

func TestAlignBoundaryInsideToken(t *testing.T) {
	tokens := WhitespaceTokenize("near Alexanderplatz")
	// Span ends in the middle of "Alexanderplatz".
	spans := []Span{{Start: 5, End: 14, Type: "location", Text: "Alexander"}}

	_, err := Align(tokens, spans)
	var boundaryErr *BoundaryError
	if !errors.As(err, &boundaryErr) {
		t.Fatalf("Align() error = %v, want *BoundaryError", err)
	}
	if boundaryErr.Token.Text != "Alexanderplatz" {
		t.Errorf("BoundaryError token = %q, want %q", boundaryErr.Token.Text, "Alexanderplatz")
	}
	if boundaryErr.Other != nil {
		t.Errorf("BoundaryError.Other = %v, want nil", boundaryErr.Other)
	}
}

func TestAlignAmbiguousOverlap(t *testing.T) {
	tokens := WhitespaceTokenize("tomorrow morning")
	// Two spans of different types cover the token "tomorrow".
	spans := []Span{
		{Start: 0, End: 8, Type: "date", Text: "tomorrow"},
		{Start: 0, End: 16, Type: "time", Text: "tomorrow morning"},
	}

	_, err := Align(tokens, spans)
	var boundaryErr *BoundaryError
	if !errors.As(err, &boundaryErr) {
		t.Fatalf("Align() error = %v, want *BoundaryError", err)
	}
	if boundaryErr.Other == nil {
		t.Fatalf("BoundaryError.Other = nil, want the conflicting span")
	}
	if boundaryErr.Other.Type == boundaryErr.Span.Type {
		t.Errorf("conflicting spans have the same type %q", boundaryErr.Span.Type)
	}
}

func TestAlignSameTypeOverlapIsFine(t *testing.T) {
	tokens := WhitespaceTokenize("new york city")
	spans := []Span{
		{Start: 0, End: 8, Type: "city", Text: "new york"},
		{Start: 0, End: 13, Type: "city", Text: "new york city"},
	}

	tags, err := Align(tokens, spans)
	if err != nil {
		t.Fatalf("Align() failed: %v", err)
	}
	want := []string{"city", "city", "city"}
	if diff := cmp.Diff(want, tags.Types()); diff != "" {
		t.Errorf("Align() tags mismatch (-want +got):\n%s", diff)
	}
}
