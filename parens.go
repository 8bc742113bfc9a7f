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
	"regexp"
	"strings"
)

// Notice commands accepted inside (((command|date))).
const (
	NoticeUnfinished  = "unfinished"
	NoticeContextWarn = "contextwarn"
	NoticeExternal    = "external"
)

var noticeDateRE = regexp.MustCompile(`^[a-zA-Z0-9\-/\s:,.]+$`)

// TripleParenthesesHandler recognizes (((command|date))) notices.
// Malformed notices are rejected as a whole
// so their text is lexed normally.
type TripleParenthesesHandler struct{}

func (TripleParenthesesHandler) Priority() int { return TripleParenthesesPriority }

func (TripleParenthesesHandler) CanHandle(ctx *LexerContext) bool {
	return ctx.MatchString("(((")
}

func (TripleParenthesesHandler) Handle(ctx *LexerContext, tokens *Tokens, stack *TagStack) bool {
	cp := ctx.Save()
	start := ctx.Pos
	ctx.Advance(3)
	contentStart := ctx.Pos
	for !ctx.IsEOF() && !ctx.MatchString(")))") {
		ctx.Advance(1)
	}
	if ctx.IsEOF() {
		ctx.Restore(cp)
		return false
	}
	content := ctx.Slice(contentStart, ctx.Pos)
	if _, _, ok := ParseNotice(content); !ok {
		ctx.Restore(cp)
		return false
	}
	ctx.Advance(3)
	tokens.Push(ctx.CreateToken(TripleParenthesesToken, ctx.Slice(start, ctx.Pos)))
	return true
}

// ParseNotice splits the inside of a (((command|date))) notice
// and reports whether it is well formed.
func ParseNotice(content string) (command, date string, ok bool) {
	content = strings.TrimPrefix(content, "(((")
	content = strings.TrimSuffix(content, ")))")
	parts := strings.Split(content, "|")
	if len(parts) != 2 {
		return "", "", false
	}
	command = strings.TrimSpace(parts[0])
	date = strings.TrimSpace(parts[1])
	switch command {
	case NoticeUnfinished, NoticeContextWarn, NoticeExternal:
	default:
		return "", "", false
	}
	if !noticeDateRE.MatchString(date) {
		return "", "", false
	}
	return command, date, true
}

const citationNeededMarker = "[citation needed]"

// FootnoteHandler recognizes ((footnote)) delimiters
// and the [citation needed] marker.
// A closing )) is only recognized while a footnote is open.
type FootnoteHandler struct{}

func (FootnoteHandler) Priority() int { return FootnotePriority }

func (FootnoteHandler) CanHandle(ctx *LexerContext) bool {
	switch ctx.Peek(0) {
	case '(':
		return ctx.Peek(1) == '('
	case ')':
		return ctx.Peek(1) == ')'
	case '[':
		return matchFold(ctx, citationNeededMarker)
	default:
		return false
	}
}

func (FootnoteHandler) Handle(ctx *LexerContext, tokens *Tokens, stack *TagStack) bool {
	switch {
	case ctx.MatchString("(("):
		ctx.Advance(2)
		stack.Push(FootnoteOpenToken)
		tokens.Push(ctx.CreateToken(FootnoteOpenToken, "(("))
		return true
	case ctx.MatchString("))"):
		if !stack.Close(FootnoteOpenToken) {
			return false
		}
		ctx.Advance(2)
		tokens.Push(ctx.CreateToken(FootnoteCloseToken, "))"))
		return true
	case matchFold(ctx, citationNeededMarker):
		n := len([]rune(citationNeededMarker))
		value := ctx.Slice(ctx.Pos, ctx.Pos+n)
		ctx.Advance(n)
		tokens.Push(ctx.CreateToken(CitationNeededToken, value))
		return true
	default:
		return false
	}
}

// matchFold is like MatchString but ignores ASCII case.
func matchFold(ctx *LexerContext, s string) bool {
	n := len([]rune(s))
	return strings.EqualFold(ctx.Slice(ctx.Pos, ctx.Pos+n), s)
}
