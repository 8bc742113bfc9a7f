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

import (
	"strings"
	"unicode"
)

// WhitespaceHandler emits NEWLINE for each '\n'
// and WHITESPACE for each run of other whitespace.
type WhitespaceHandler struct{}

func (WhitespaceHandler) Priority() int { return WhitespacePriority }

func (WhitespaceHandler) CanHandle(ctx *LexerContext) bool {
	return unicode.IsSpace(ctx.Peek(0))
}

func (WhitespaceHandler) Handle(ctx *LexerContext, tokens *Tokens, stack *TagStack) bool {
	if ctx.Peek(0) == '\n' {
		pos := ctx.Position()
		ctx.Advance(1)
		tokens.Push(Token{Kind: NewlineToken, Value: "\n", Pos: pos})
		return true
	}
	start := ctx.Pos
	for c := ctx.Peek(0); !ctx.IsEOF() && c != '\n' && unicode.IsSpace(c); c = ctx.Peek(0) {
		ctx.Advance(1)
	}
	if ctx.Pos == start {
		return false
	}
	tokens.Push(ctx.CreateToken(WhitespaceToken, ctx.Slice(start, ctx.Pos)))
	return true
}

// textSpecial lists the runes that end a text run
// because some other handler may claim them.
const textSpecial = "_*/[]=\n|-`\\<{}()"

// TextHandler is the fallback handler.
// It emits the longest run of ordinary runes,
// or a single rune when the cursor is on a special one.
type TextHandler struct{}

func (TextHandler) Priority() int { return TextPriority }

func (TextHandler) CanHandle(ctx *LexerContext) bool {
	return !ctx.IsEOF()
}

func (TextHandler) Handle(ctx *LexerContext, tokens *Tokens, stack *TagStack) bool {
	start := ctx.Pos
	for c := ctx.Peek(0); !ctx.IsEOF() && !isTextSpecial(c) && !unicode.IsSpace(c); c = ctx.Peek(0) {
		ctx.Advance(1)
	}
	if ctx.Pos == start {
		ctx.Advance(1)
	}
	tokens.Push(ctx.CreateToken(TextToken, ctx.Slice(start, ctx.Pos)))
	return true
}

func isTextSpecial(c rune) bool {
	return strings.ContainsRune(textSpecial, c)
}
