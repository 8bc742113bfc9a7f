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

// HeadingHandler recognizes runs of '=' that delimit headings.
// A run at the start of a line opens a heading;
// a run anywhere while a heading is open closes it.
// The token value is the run itself, so its length encodes the level.
type HeadingHandler struct{}

func (HeadingHandler) Priority() int { return HeadingPriority }

func (HeadingHandler) CanHandle(ctx *LexerContext) bool {
	return ctx.Peek(0) == '='
}

func (HeadingHandler) Handle(ctx *LexerContext, tokens *Tokens, stack *TagStack) bool {
	n := runLength(ctx, '=')
	if n == 0 {
		return false
	}
	run := strings.Repeat("=", n)
	switch {
	case ctx.AtLineStart():
		ctx.Advance(n)
		stack.Push(HeadingOpenToken)
		tokens.Push(ctx.CreateToken(HeadingOpenToken, run))
		return true
	case stack.Contains(HeadingOpenToken):
		ctx.Advance(n)
		stack.RemoveAt(stack.LastIndex(HeadingOpenToken))
		tokens.Push(ctx.CreateToken(HeadingCloseToken, run))
		return true
	default:
		return false
	}
}
