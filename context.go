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

import "unicode/utf8"

// A LexerContext is a read cursor over the runes of a single document.
// Handlers inspect the input with Peek
// and consume it with Advance,
// using Save and Restore to backtrack.
type LexerContext struct {
	input []rune

	// Pos is the rune offset of the next unconsumed rune.
	Pos  int
	Line int
	Col  int
}

// NewLexerContext returns a cursor positioned at the start of input.
func NewLexerContext(input string) *LexerContext {
	return &LexerContext{
		input: []rune(input),
		Line:  1,
		Col:   1,
	}
}

// Len returns the number of runes in the input.
func (ctx *LexerContext) Len() int {
	return len(ctx.input)
}

// Peek returns the rune n positions past the cursor
// or zero if that position is out of range.
func (ctx *LexerContext) Peek(n int) rune {
	i := ctx.Pos + n
	if i < 0 || i >= len(ctx.input) {
		return 0
	}
	return ctx.input[i]
}

// Prev returns the rune immediately before the cursor
// or zero at the start of input.
func (ctx *LexerContext) Prev() rune {
	return ctx.Peek(-1)
}

// Advance consumes n runes and returns the first one consumed.
// Advancing past the end of input stops at the end.
func (ctx *LexerContext) Advance(n int) rune {
	first := ctx.Peek(0)
	for ; n > 0 && ctx.Pos < len(ctx.input); n-- {
		if ctx.input[ctx.Pos] == '\n' {
			ctx.Line++
			ctx.Col = 1
		} else {
			ctx.Col++
		}
		ctx.Pos++
	}
	return first
}

// IsEOF reports whether all input has been consumed.
func (ctx *LexerContext) IsEOF() bool {
	return ctx.Pos >= len(ctx.input)
}

// AtLineStart reports whether the cursor is at the start of input
// or immediately after a newline.
func (ctx *LexerContext) AtLineStart() bool {
	return ctx.Pos == 0 || ctx.Prev() == '\n'
}

// MatchString reports whether the input at the cursor begins with s.
func (ctx *LexerContext) MatchString(s string) bool {
	i := ctx.Pos
	for _, c := range s {
		if i >= len(ctx.input) || ctx.input[i] != c {
			return false
		}
		i++
	}
	return true
}

// Slice returns the input between two rune offsets.
func (ctx *LexerContext) Slice(start, end int) string {
	start = max(start, 0)
	end = min(end, len(ctx.input))
	if start >= end {
		return ""
	}
	return string(ctx.input[start:end])
}

// Position returns the line and column of the cursor.
func (ctx *LexerContext) Position() Position {
	return Position{Line: ctx.Line, Column: ctx.Col}
}

// A Checkpoint is a saved cursor position.
type Checkpoint struct {
	pos, line, col int
}

// Save returns the current cursor position.
func (ctx *LexerContext) Save() Checkpoint {
	return Checkpoint{ctx.Pos, ctx.Line, ctx.Col}
}

// Restore moves the cursor back to a saved position.
func (ctx *LexerContext) Restore(c Checkpoint) {
	ctx.Pos, ctx.Line, ctx.Col = c.pos, c.line, c.col
}

// CreateToken returns a token of the given kind
// positioned at the start of value,
// assuming value was just consumed on the current line.
func (ctx *LexerContext) CreateToken(kind TokenKind, value string) Token {
	return Token{
		Kind:  kind,
		Value: value,
		Pos: Position{
			Line:   ctx.Line,
			Column: max(ctx.Col-utf8.RuneCountInString(value), 1),
		},
	}
}
