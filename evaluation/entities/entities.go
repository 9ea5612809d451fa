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

// Package entities implements token-level entity alignment and scoring.
//
// Span annotations (gold or predicted) are converted into per-token type
// tags; gold and predicted tag sequences over the same tokenization are
// then compared token by token. The scheme uses bare type tags without
// BILOU prefixes, which makes it deliberately lenient: a predicted span
// that partially overlaps a gold span earns credit for the tokens it does
// cover, and splitting one gold span into several predicted spans of the
// same type earns full credit.
package entities

import (
	"fmt"
	"unicode"
)

// NoTag marks a token not covered by any entity span. It never appears in
// an evaluation report.
const NoTag = ""

// Token is one unit of a tokenized utterance, with character offsets into
// the original text.
type Token struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Span is a labeled character range within a single utterance.
type Span struct {
	Start int    `json:"start" yaml:"start" mapstructure:"start"`
	End   int    `json:"end" yaml:"end" mapstructure:"end"`
	Type  string `json:"entity" yaml:"entity" mapstructure:"entity"`
	Text  string `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`
}

// Tag pairs a token with the entity type covering it, or NoTag.
type Tag struct {
	Token Token  `json:"token"`
	Type  string `json:"type"`
}

// TagSequence is the per-token tagging of one utterance.
type TagSequence []Tag

// Types returns just the type tags, in token order.
func (s TagSequence) Types() []string {
	types := make([]string, len(s))
	for i, t := range s {
		types[i] = t.Type
	}
	return types
}

// BoundaryError reports a span that cannot be mapped onto the tokenization:
// either one of its boundaries falls strictly inside a token, or two spans
// of different types cover the same token. The offending example is
// excluded from entity scoring and listed separately; it never aborts the
// batch.
type BoundaryError struct {
	Span  Span
	Token Token
	// Other is set when the conflict is an ambiguous overlap with a
	// second span of a different type.
	Other *Span
}

func (e *BoundaryError) Error() string {
	if e.Other != nil {
		return fmt.Sprintf(
			"entities: token %q (%d-%d) is covered by overlapping spans of types %q and %q",
			e.Token.Text, e.Token.Start, e.Token.End, e.Other.Type, e.Span.Type)
	}
	return fmt.Sprintf(
		"entities: span %q (%d-%d, type %q) has a boundary inside token %q (%d-%d)",
		e.Span.Text, e.Span.Start, e.Span.End, e.Span.Type,
		e.Token.Text, e.Token.Start, e.Token.End)
}

// WhitespaceTokenize splits text on Unicode whitespace, preserving
// character offsets. It is the default tokenizer used when the caller does
// not supply the model's own tokenization.
func WhitespaceTokenize(text string) []Token {
	var tokens []Token
	runes := []rune(text)
	start := -1
	for i, r := range runes {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, Token{Text: string(runes[start:i]), Start: start, End: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, Token{Text: string(runes[start:]), Start: start, End: len(runes)})
	}
	return tokens
}
