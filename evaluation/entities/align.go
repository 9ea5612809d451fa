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

// Align assigns each token the type of the span whose character range
// fully contains it; tokens covered by no span get NoTag.
//
// Alignment fails with a *BoundaryError when a span boundary falls
// strictly inside a token, or when two spans of different types cover the
// same token. Such violations are surfaced, never silently corrected.
func Align(tokens []Token, spans []Span) (TagSequence, error) {
	tags := make(TagSequence, len(tokens))
	for i, tok := range tokens {
		tags[i] = Tag{Token: tok, Type: NoTag}
	}

	for si := range spans {
		span := spans[si]
		for i, tok := range tokens {
			if span.End <= tok.Start || span.Start >= tok.End {
				continue
			}
			// The span overlaps this token. A boundary strictly
			// inside the token cannot be expressed as a token tag.
			if span.Start > tok.Start && span.Start < tok.End {
				return nil, &BoundaryError{Span: span, Token: tok}
			}
			if span.End > tok.Start && span.End < tok.End {
				return nil, &BoundaryError{Span: span, Token: tok}
			}
			if prev := tags[i].Type; prev != NoTag && prev != span.Type {
				other := findSpan(spans[:si], prev)
				return nil, &BoundaryError{Span: span, Token: tok, Other: other}
			}
			tags[i].Type = span.Type
		}
	}

	return tags, nil
}

func findSpan(spans []Span, entityType string) *Span {
	for i := range spans {
		if spans[i].Type == entityType {
			return &spans[i]
		}
	}
	return nil
}
