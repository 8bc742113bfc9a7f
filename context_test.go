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

import "testing"

func TestLexerContext(t *testing.T) {
	ctx := NewLexerContext("ab\nçd")
	if got := ctx.Peek(0); got != 'a' {
		t.Errorf("Peek(0) = %q; want 'a'", got)
	}
	if got := ctx.Peek(100); got != 0 {
		t.Errorf("Peek(100) = %q; want 0", got)
	}
	if got := ctx.Prev(); got != 0 {
		t.Errorf("Prev() at start = %q; want 0", got)
	}
	if !ctx.AtLineStart() {
		t.Error("AtLineStart() at start = false; want true")
	}
	if !ctx.MatchString("ab\n") || ctx.MatchString("abc") {
		t.Error("MatchString mismatch at start")
	}

	cp := ctx.Save()
	if got := ctx.Advance(3); got != 'a' {
		t.Errorf("Advance(3) = %q; want 'a'", got)
	}
	if ctx.Pos != 3 || ctx.Line != 2 || ctx.Col != 1 {
		t.Errorf("after Advance(3): Pos=%d Line=%d Col=%d; want 3 2 1", ctx.Pos, ctx.Line, ctx.Col)
	}
	if !ctx.AtLineStart() {
		t.Error("AtLineStart() after newline = false; want true")
	}
	ctx.Advance(1)
	if tok := ctx.CreateToken(TextToken, "ç"); tok.Pos != (Position{Line: 2, Column: 1}) {
		t.Errorf("CreateToken(TEXT, \"ç\").Pos = %v; want 2:1", tok.Pos)
	}
	ctx.Advance(10)
	if !ctx.IsEOF() || ctx.Pos != ctx.Len() {
		t.Errorf("Advance past end: Pos=%d IsEOF=%t; want %d true", ctx.Pos, ctx.IsEOF(), ctx.Len())
	}

	ctx.Restore(cp)
	if ctx.Pos != 0 || ctx.Line != 1 || ctx.Col != 1 {
		t.Errorf("after Restore: Pos=%d Line=%d Col=%d; want 0 1 1", ctx.Pos, ctx.Line, ctx.Col)
	}
	if got, want := ctx.Slice(1, 4), "b\nç"; got != want {
		t.Errorf("Slice(1, 4) = %q; want %q", got, want)
	}
}

func TestTagStack(t *testing.T) {
	tests := []struct {
		name  string
		stack TagStack
		want  int
	}{
		{"Empty", nil, -1},
		{"Top", TagStack{LinkOpenToken, BoldOpenToken}, 1},
		{"Buried", TagStack{BoldOpenToken, ItalicOpenToken}, 0},
		{"Matched", TagStack{BoldOpenToken, BoldCloseToken}, -1},
		{"SkipMatched", TagStack{BoldOpenToken, BoldOpenToken, BoldCloseToken}, 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.stack.LastUnclosed(BoldOpenToken, BoldCloseToken); got != test.want {
				t.Errorf("%v.LastUnclosed(BOLD_OPEN, BOLD_CLOSE) = %d; want %d", test.stack, got, test.want)
			}
		})
	}

	s := TagStack{BoldOpenToken, ItalicOpenToken, UnderlineOpenToken}
	if !s.Close(ItalicOpenToken) {
		t.Fatal("Close(ITALIC_OPEN) = false; want true")
	}
	if len(s) != 2 || s[0] != BoldOpenToken || s[1] != UnderlineOpenToken {
		t.Errorf("after Close(ITALIC_OPEN): %v; want [BOLD_OPEN UNDERLINE_OPEN]", s)
	}
	if s.Close(LinkOpenToken) {
		t.Error("Close(LINK_OPEN) = true; want false")
	}
}
