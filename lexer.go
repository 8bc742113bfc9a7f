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
	"fmt"
	"slices"
	"strconv"
)

// A Lexer converts markup text into a token sequence
// by consulting its handlers in priority order at each position.
// A Lexer holds no per-document state
// and may be used by multiple goroutines
// as long as RegisterHandler is not called concurrently.
type Lexer struct {
	handlers []TokenHandler
}

// NewLexer returns a lexer using [DefaultHandlers].
func NewLexer() *Lexer {
	l := new(Lexer)
	for _, h := range DefaultHandlers() {
		l.RegisterHandler(h)
	}
	return l
}

// RegisterHandler adds a handler.
// Handlers with equal priority are consulted in registration order.
func (l *Lexer) RegisterHandler(h TokenHandler) {
	l.handlers = append(l.handlers, h)
	slices.SortStableFunc(l.handlers, func(a, b TokenHandler) int {
		return b.Priority() - a.Priority()
	})
}

// Handlers returns the registered handlers in the order they are consulted.
func (l *Lexer) Handlers() []TokenHandler {
	return slices.Clone(l.handlers)
}

// A LexError is returned when no handler accepts the input at a position.
type LexError struct {
	Offset int
	Pos    Position
	Char   rune
}

func (e *LexError) Error() string {
	return "unhandled character at position " + strconv.Itoa(e.Offset) + " (" + e.Pos.String() + "): " + strconv.QuoteRune(e.Char)
}

// Tokenise converts text into tokens.
// The returned sequence always ends with a single EOF token.
func (l *Lexer) Tokenise(text string) ([]Token, error) {
	ctx := NewLexerContext(text)
	tokens := make(Tokens, 0, ctx.Len()/3+1)
	var stack TagStack
	for !ctx.IsEOF() {
		handled := false
		for _, h := range l.handlers {
			start := ctx.Pos
			if h.CanHandle(ctx) && h.Handle(ctx, &tokens, &stack) {
				if ctx.Pos == start {
					return nil, fmt.Errorf("tokenise: handler %T made no progress at %v", h, ctx.Position())
				}
				handled = true
				break
			}
		}
		if !handled {
			return nil, &LexError{
				Offset: ctx.Pos,
				Pos:    ctx.Position(),
				Char:   ctx.Peek(0),
			}
		}
	}
	tokens.Push(Token{Kind: EOFToken, Pos: ctx.Position()})
	return tokens, nil
}

// Tokenise converts text into tokens using the default handlers.
func Tokenise(text string) ([]Token, error) {
	return defaultLexer.Tokenise(text)
}

var defaultLexer = NewLexer()
