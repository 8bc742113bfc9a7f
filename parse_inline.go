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
	"slices"
	"strings"
)

var spanKinds = map[TokenKind]NodeKind{
	BoldOpenToken:      BoldKind,
	ItalicOpenToken:    ItalicKind,
	UnderlineOpenToken: UnderlineKind,
	SubOpenToken:       SubscriptKind,
	SupOpenToken:       SuperscriptKind,
}

func isSpanClose(kind TokenKind) bool {
	switch kind {
	case BoldCloseToken, ItalicCloseToken, UnderlineCloseToken, SubCloseToken, SupCloseToken:
		return true
	default:
		return false
	}
}

// enter records that the parser is inside a construct ending at term.
func (p *Parser) enter(term TokenKind) {
	p.terminators = append(p.terminators, term)
}

func (p *Parser) leave() {
	p.terminators = p.terminators[:len(p.terminators)-1]
}

// interrupts reports whether a token of the given kind
// closes a construct enclosing the innermost one.
// Newlines never interrupt: formatting may span lines within a paragraph.
func (p *Parser) interrupts(kind TokenKind) bool {
	if kind == NewlineToken || len(p.terminators) < 2 {
		return false
	}
	return slices.Contains(p.terminators[:len(p.terminators)-1], kind)
}

// inlineUntil parses inline content up to (not including) term,
// the end of input, or the close of an enclosing construct.
func (p *Parser) inlineUntil(term TokenKind) []*Node {
	p.enter(term)
	defer p.leave()

	var nodes []*Node
	if len(p.resume) > 0 {
		open := p.resume[0]
		p.resume = p.resume[1:]
		nodes = append(nodes, p.span(open)...)
	}
	for !p.isAtEnd() && !p.check(term) {
		tok := p.peek()
		if p.interrupts(tok.Kind) {
			break
		}
		switch tok.Kind {
		case TextToken:
			p.advance()
			nodes = append(nodes, Text(tok.Value))
		case WhitespaceToken:
			p.advance()
			nodes = append(nodes, Text(" "))
		case LinkPipeToken, ImagePipeToken:
			// Left over from an unterminated link or image.
			p.advance()
			nodes = append(nodes, Text(tok.Value))
		case LinebreakToken:
			p.advance()
			nodes = append(nodes, &Node{Kind: LinebreakKind})
		case NewlineToken:
			p.advance()
			nodes = append(nodes, &Node{Kind: NewlineKind})
		case BoldOpenToken, ItalicOpenToken, UnderlineOpenToken, SubOpenToken, SupOpenToken:
			p.advance()
			nodes = append(nodes, p.span(tok.Kind)...)
		case LinkOpenToken:
			nodes = append(nodes, p.parseLink()...)
		case FootnoteOpenToken:
			nodes = append(nodes, p.parseFootnote())
		case CitationNeededToken:
			p.advance()
			nodes = append(nodes, &Node{Kind: CitationNeededKind})
		case ImageOpenToken:
			nodes = append(nodes, p.parseImage())
		case TripleParenthesesToken:
			nodes = append(nodes, p.parseNotice())
		default:
			p.fail("unexpected %v in inline content", tok.Kind)
		}
	}
	return nodes
}

// span parses a formatting span whose open token has been consumed.
// It returns the span followed by any spans
// that had to be reopened after it closed.
func (p *Parser) span(open TokenKind) []*Node {
	close := open.CloseKind()
	n := &Node{Kind: spanKinds[open]}
	n.Children = p.inlineUntil(close)
	switch {
	case p.match(close):
		return append([]*Node{n}, p.reopen(close)...)
	case isSpanClose(p.peek().Kind):
		p.interrupted = append(p.interrupted, interruption{open: open, by: p.peek().Kind})
		return []*Node{n}
	case p.isAtEnd():
		// Never closed: keep the marker as text.
		marker := p.markerFor(open)
		return append([]*Node{Text(marker)}, n.Children...)
	default:
		return []*Node{n}
	}
}

// reopen continues spans that were cut short by a close of the given kind,
// nesting them in their original order.
func (p *Parser) reopen(by TokenKind) []*Node {
	i := len(p.interrupted)
	for i > 0 && p.interrupted[i-1].by == by {
		i--
	}
	cut := p.interrupted[i:]
	if len(cut) == 0 {
		return nil
	}
	opens := make([]TokenKind, 0, len(cut))
	for j := len(cut) - 1; j >= 0; j-- {
		opens = append(opens, cut[j].open)
	}
	p.interrupted = p.interrupted[:i]
	p.resume = append(p.resume, opens[1:]...)
	return p.span(opens[0])
}

func (p *Parser) markerFor(open TokenKind) string {
	for _, m := range formattingMarkers {
		if m.open == open {
			return m.marker
		}
	}
	switch open {
	case SubOpenToken:
		return "<sub>"
	case SupOpenToken:
		return "<sup>"
	}
	return ""
}

func (p *Parser) parseFootnote() *Node {
	p.consume(FootnoteOpenToken, "expected '(('")
	children := p.inlineUntil(FootnoteCloseToken)
	p.consume(FootnoteCloseToken, "expected '))' to close footnote")
	return &Node{Kind: FootnoteKind, Children: trimSpaceNodes(children)}
}

// parseLink parses a [[target|text]] link.
// Links that cannot be resolved come back as literal text.
func (p *Parser) parseLink() []*Node {
	p.consume(LinkOpenToken, "expected '[['")
	target := new(strings.Builder)
	for !p.isAtEnd() && !p.check(LinkPipeToken) && !p.check(LinkCloseToken) && !p.check(NewlineToken) {
		target.WriteString(p.advance().Value)
	}
	raw := target.String()

	var children []*Node
	hasText := p.match(LinkPipeToken)
	if hasText {
		children = p.inlineUntil(LinkCloseToken)
	}
	closed := p.match(LinkCloseToken)

	text := ""
	if allText(children) {
		text = strings.TrimSpace(joinText(children))
		children = nil
	}
	t := ValidateLinkTarget(raw)
	if !closed || !t.Valid {
		reason := t.Error
		if !closed {
			reason = "unterminated link"
		}
		p.logger().Warn().Str("target", raw).Str("reason", reason).Msg("rendering link as text")
		return literalLink(raw, hasText, text, children, closed)
	}

	info := &LinkInfo{
		Type:         t.Type,
		Href:         strings.TrimSpace(raw),
		Text:         text,
		ExplicitText: text != "",
	}
	if info.Text == "" && len(children) == 0 {
		info.Text = info.Href
	}
	switch {
	case t.InterwikiDest != "":
		info.InterwikiDest = t.InterwikiDest
		info.InterwikiID = t.InterwikiID
		info.Href, _ = InterwikiURL(t.InterwikiDest, t.InterwikiID)
	case t.Type == InternalLink:
		info.Namespace = t.Namespace
		info.Page = t.Page
		info.Anchor = t.Anchor
		info.Href = NormalizeInternalLink(raw)
	case t.Type == AnchorLink:
		info.Anchor = t.Anchor
	}
	return []*Node{{Kind: LinkKind, Link: info, Children: children}}
}

func literalLink(target string, hasText bool, text string, children []*Node, closed bool) []*Node {
	head := "[[" + target
	if hasText {
		head += "|" + text
	}
	nodes := []*Node{Text(head)}
	nodes = append(nodes, children...)
	if closed {
		nodes = append(nodes, Text("]]"))
	}
	return nodes
}

var imageWidthRE = regexp.MustCompile(`^width=(\d+)(px|%)?$|^(\d+)(px|%)?$`)
var imageFormatRE = regexp.MustCompile(`\.(\w+)$`)

// parseImage parses {{path?width|caption}}.
// Leading whitespace inside the braces aligns the image left;
// otherwise it is aligned right.
func (p *Parser) parseImage() *Node {
	p.consume(ImageOpenToken, "expected '{{'")
	info := &ImageInfo{Loading: "lazy", Align: "right"}
	if p.check(WhitespaceToken) {
		info.Align = "left"
	}

	path := new(strings.Builder)
	for !p.isAtEnd() && !p.check(ImagePipeToken) && !p.check(ImageCloseToken) {
		path.WriteString(p.advance().Value)
	}
	src := strings.TrimSpace(path.String())
	base, query, ok := strings.Cut(src, "?")
	if !ok {
		p.fail("image %q has no width information", src)
	}
	info.Src = base
	if m := imageWidthRE.FindStringSubmatch(query); m != nil {
		if m[1] != "" {
			info.Width = m[1]
		} else {
			info.Width = m[3] + m[4]
		}
	}
	if m := imageFormatRE.FindStringSubmatch(base); m != nil {
		info.Format = strings.ToLower(m[1])
	}

	if p.match(ImagePipeToken) {
		caption := new(strings.Builder)
		for !p.isAtEnd() && !p.check(ImageCloseToken) {
			switch tok := p.advance(); tok.Kind {
			case TextToken:
				caption.WriteString(tok.Value)
			case WhitespaceToken:
				caption.WriteString(" ")
			}
		}
		info.Alt = strings.TrimSpace(caption.String())
	}
	p.consume(ImageCloseToken, "expected '}}' to close image")
	return &Node{Kind: ImageKind, Image: info}
}
