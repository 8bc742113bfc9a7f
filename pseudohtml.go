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

import "unicode"

type pseudoTag struct {
	open, close TokenKind // close is zero for void tags
	allowed     []string
}

var (
	sectionAttrs = []string{"class"}
	cellAttrs    = []string{"class", "colspan", "rowspan", "align"}
)

var pseudoTags = map[string]pseudoTag{
	"callout": {CalloutOpenToken, CalloutCloseToken, []string{"type", "title"}},
	"sub":     {SubOpenToken, SubCloseToken, nil},
	"sup":     {SupOpenToken, SupCloseToken, nil},
	"table":   {TableOpenToken, TableCloseToken, []string{"class", "id"}},
	"thead":   {TheadOpenToken, TheadCloseToken, sectionAttrs},
	"tbody":   {TbodyOpenToken, TbodyCloseToken, sectionAttrs},
	"tfoot":   {TfootOpenToken, TfootCloseToken, sectionAttrs},
	"tr":      {TROpenToken, TRCloseToken, sectionAttrs},
	"td":      {TDOpenToken, TDCloseToken, cellAttrs},
	"th":      {THOpenToken, THCloseToken, cellAttrs},
	"affili":  {AffiliToken, 0, []string{"name", "school", "class", "fAppear"}},
}

// PseudoHTMLHandler recognizes the small set of HTML-like tags
// the markup allows: callout, sub, sup, the table family
// and the void affili tag.
// Attributes are filtered against a per-tag allow-list and escaped.
// Anything else beginning with '<' is left for the text handler.
type PseudoHTMLHandler struct{}

func (PseudoHTMLHandler) Priority() int { return PseudoHTMLPriority }

func (PseudoHTMLHandler) CanHandle(ctx *LexerContext) bool {
	if ctx.Peek(0) != '<' {
		return false
	}
	i := 1
	if ctx.Peek(i) == '/' {
		i++
	}
	start := ctx.Pos + i
	for isASCIILetter(ctx.Peek(i)) {
		i++
	}
	_, ok := pseudoTags[ctx.Slice(start, ctx.Pos+i)]
	return ok
}

func (PseudoHTMLHandler) Handle(ctx *LexerContext, tokens *Tokens, stack *TagStack) bool {
	cp := ctx.Save()
	start := ctx.Pos
	ctx.Advance(1)
	closing := ctx.Peek(0) == '/'
	if closing {
		ctx.Advance(1)
	}
	nameStart := ctx.Pos
	for isASCIILetter(ctx.Peek(0)) {
		ctx.Advance(1)
	}
	tag, ok := pseudoTags[ctx.Slice(nameStart, ctx.Pos)]
	if !ok {
		ctx.Restore(cp)
		return false
	}

	if closing {
		skipInlineSpace(ctx)
		if ctx.Peek(0) != '>' || tag.close == 0 {
			ctx.Restore(cp)
			return false
		}
		i := stack.LastIndex(tag.open)
		if i < 0 {
			ctx.Restore(cp)
			return false
		}
		ctx.Advance(1)
		stack.RemoveAt(i)
		tokens.Push(ctx.CreateToken(tag.close, ctx.Slice(start, ctx.Pos)))
		return true
	}

	switch c := ctx.Peek(0); {
	case c == '>' || c == '/' || c == '\n' || unicode.IsSpace(c):
	default:
		ctx.Restore(cp)
		return false
	}
	raw := scanAttributes(ctx)
	for !ctx.IsEOF() && ctx.Peek(0) != '>' {
		ctx.Advance(1)
	}
	if ctx.IsEOF() {
		ctx.Restore(cp)
		return false
	}
	ctx.Advance(1)

	tok := ctx.CreateToken(tag.open, ctx.Slice(start, ctx.Pos))
	tok.Attributes = sanitizeAttributes(tag.allowed, raw)
	if tag.open == CalloutOpenToken {
		tok.CalloutType = CalloutType(tok.Attributes["type"])
		if tok.CalloutType == "" {
			tok.CalloutType = DefaultCallout
		}
		tok.CalloutTitle = tok.Attributes["title"]
	}
	if tag.close != 0 {
		stack.Push(tag.open)
	}
	tokens.Push(tok)
	return true
}

// scanAttributes reads name=value pairs up to the end of a tag.
// Values may be double-quoted, single-quoted or bare.
// It stops before '>' or "/>" without consuming it.
func scanAttributes(ctx *LexerContext) map[string]string {
	attrs := make(map[string]string)
	for {
		skipSpace(ctx)
		if ctx.IsEOF() || ctx.Peek(0) == '>' || ctx.MatchString("/>") {
			return attrs
		}
		nameStart := ctx.Pos
		for isASCIILetter(ctx.Peek(0)) {
			ctx.Advance(1)
		}
		name := ctx.Slice(nameStart, ctx.Pos)
		if name == "" {
			ctx.Advance(1)
			continue
		}
		skipSpace(ctx)
		if ctx.Peek(0) != '=' {
			attrs[name] = ""
			continue
		}
		ctx.Advance(1)
		skipSpace(ctx)
		attrs[name] = scanAttributeValue(ctx)
	}
}

func scanAttributeValue(ctx *LexerContext) string {
	if q := ctx.Peek(0); q == '"' || q == '\'' {
		ctx.Advance(1)
		start := ctx.Pos
		for !ctx.IsEOF() && ctx.Peek(0) != q {
			ctx.Advance(1)
		}
		v := ctx.Slice(start, ctx.Pos)
		ctx.Advance(1)
		return v
	}
	start := ctx.Pos
	for c := ctx.Peek(0); !ctx.IsEOF() && c != '>' && !unicode.IsSpace(c); c = ctx.Peek(0) {
		if ctx.MatchString("/>") {
			break
		}
		ctx.Advance(1)
	}
	return ctx.Slice(start, ctx.Pos)
}

func skipSpace(ctx *LexerContext) {
	for !ctx.IsEOF() && unicode.IsSpace(ctx.Peek(0)) {
		ctx.Advance(1)
	}
}

func skipInlineSpace(ctx *LexerContext) {
	for c := ctx.Peek(0); c == ' ' || c == '\t'; c = ctx.Peek(0) {
		ctx.Advance(1)
	}
}
