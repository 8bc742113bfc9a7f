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

import "strings"

type formattingMarker struct {
	marker      string
	open, close TokenKind
}

var formattingMarkers = [...]formattingMarker{
	{"**", BoldOpenToken, BoldCloseToken},
	{"//", ItalicOpenToken, ItalicCloseToken},
	{"__", UnderlineOpenToken, UnderlineCloseToken},
}

// FormattingHandler recognizes the paired bold (**), italic (//)
// and underline (__) markers.
// A marker opens a span unless one of the same kind is already open,
// in which case it closes that span.
type FormattingHandler struct{}

func (FormattingHandler) Priority() int { return FormattingPriority }

func (FormattingHandler) CanHandle(ctx *LexerContext) bool {
	_, ok := matchFormatting(ctx)
	return ok
}

func (FormattingHandler) Handle(ctx *LexerContext, tokens *Tokens, stack *TagStack) bool {
	m, ok := matchFormatting(ctx)
	if !ok {
		return false
	}
	ctx.Advance(len(m.marker))
	if i := stack.LastUnclosed(m.open, m.close); i >= 0 {
		stack.RemoveAt(i)
		tokens.Push(ctx.CreateToken(m.close, m.marker))
		return true
	}
	stack.Push(m.open)
	tokens.Push(ctx.CreateToken(m.open, m.marker))
	return true
}

func matchFormatting(ctx *LexerContext) (formattingMarker, bool) {
	for _, m := range formattingMarkers {
		if !ctx.MatchString(m.marker) {
			continue
		}
		// Leave URL schemes like https:// alone.
		if strings.HasPrefix(m.marker, "/") && ctx.Prev() == ':' {
			return formattingMarker{}, false
		}
		return m, true
	}
	return formattingMarker{}, false
}
