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

const (
	linebreakMarker = `\\`
	ruleMarker      = "----"
)

// MiscHandler recognizes forced line breaks (\\ followed by a space,
// a newline or the end of input)
// and horizontal rules (exactly four '-' at the start of a line).
type MiscHandler struct{}

func (MiscHandler) Priority() int { return MiscPriority }

func (MiscHandler) CanHandle(ctx *LexerContext) bool {
	c := ctx.Peek(0)
	return c == '\\' || c == '-'
}

func (MiscHandler) Handle(ctx *LexerContext, tokens *Tokens, stack *TagStack) bool {
	if ctx.MatchString(linebreakMarker) {
		next := len([]rune(linebreakMarker))
		if ctx.Pos+next >= ctx.Len() || ctx.Peek(next) == ' ' || ctx.Peek(next) == '\n' {
			ctx.Advance(next)
			tokens.Push(ctx.CreateToken(LinebreakToken, linebreakMarker))
			return true
		}
		return false
	}
	if ctx.AtLineStart() && ctx.MatchString(ruleMarker) && ctx.Peek(len(ruleMarker)) != '-' {
		ctx.Advance(len(ruleMarker))
		tokens.Push(ctx.CreateToken(HorizRuleToken, ruleMarker))
		return true
	}
	return false
}
