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

// ImageHandler recognizes the {{ and }} image delimiters
// and the caption separator inside an image.
type ImageHandler struct{}

func (ImageHandler) Priority() int { return ImagePriority }

func (ImageHandler) CanHandle(ctx *LexerContext) bool {
	return ctx.MatchString("{{") || ctx.MatchString("}}") || ctx.Peek(0) == '|'
}

func (ImageHandler) Handle(ctx *LexerContext, tokens *Tokens, stack *TagStack) bool {
	switch {
	case ctx.MatchString("{{"):
		ctx.Advance(2)
		stack.Push(ImageOpenToken)
		tokens.Push(ctx.CreateToken(ImageOpenToken, "{{"))
		return true
	case ctx.MatchString("}}"):
		if !stack.Close(ImageOpenToken) {
			return false
		}
		ctx.Advance(2)
		tokens.Push(ctx.CreateToken(ImageCloseToken, "}}"))
		return true
	case ctx.Peek(0) == '|' && stack.Contains(ImageOpenToken):
		ctx.Advance(1)
		tokens.Push(ctx.CreateToken(ImagePipeToken, "|"))
		return true
	default:
		return false
	}
}
