// Copyright 2024 The lawe Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package lawe

// A TokenHandler recognizes one family of constructs at the cursor.
//
// CanHandle is a cheap look-ahead that must not move the cursor.
// Handle consumes input and appends tokens,
// or restores the cursor and returns false to let a lower-priority handler try.
type TokenHandler interface {
	Priority() int
	CanHandle(ctx *LexerContext) bool
	Handle(ctx *LexerContext, tokens *Tokens, stack *TagStack) bool
}

// Handler priorities. Higher values are consulted first.
const (
	TripleParenthesesPriority = 111
	PseudoHTMLPriority        = 110
	FootnotePriority          = 105
	FormattingPriority        = 100
	MiscPriority              = 95
	HeadingPriority           = 90
	LinkPriority              = 85
	ImagePriority             = 80
	WhitespacePriority        = 10
	TextPriority              = 1
)

// DefaultHandlers returns a new slice of the built-in handlers.
func DefaultHandlers() []TokenHandler {
	return []TokenHandler{
		TripleParenthesesHandler{},
		PseudoHTMLHandler{},
		FootnoteHandler{},
		FormattingHandler{},
		MiscHandler{},
		HeadingHandler{},
		LinkHandler{},
		ImageHandler{},
		WhitespaceHandler{},
		TextHandler{},
	}
}

func isASCIILetter(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isASCIIDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

// runLength returns the number of consecutive c runes at the cursor.
func runLength(ctx *LexerContext, c rune) int {
	n := 0
	for ctx.Peek(n) == c {
		n++
	}
	return n
}
