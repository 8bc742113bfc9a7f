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
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// A ParseError describes malformed markup found by a [Parser].
// Parse errors are recovered per block:
// the offending block is dropped and parsing resumes after the token
// at which the error was detected.
type ParseError struct {
	Pos   Position
	Token TokenKind
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %v at %v: %s", e.Token, e.Pos, e.Msg)
}

// A Parser builds a document tree from a token sequence.
// A Parser may be reused for many documents, but not concurrently.
type Parser struct {
	// Logger receives warnings about recovered errors
	// and invalid links. Nil discards them.
	Logger *zerolog.Logger

	tokens       []Token
	current      int
	generatedIDs map[string]struct{}
	errs         []error

	// terminators holds the close kinds of the constructs being parsed,
	// innermost last.
	terminators []TokenKind
	// interrupted holds formatting spans that were cut short
	// by an enclosing span's close and must be reopened after it.
	interrupted []interruption
	// resume holds spans to reopen at the start of the next inline run.
	resume []TokenKind
}

type interruption struct {
	open TokenKind
	by   TokenKind
}

// Parse builds a document tree from tokens using a new [Parser].
func Parse(tokens []Token) *Node {
	return new(Parser).Parse(tokens)
}

// Parse builds a document tree from tokens.
// Blocks that fail to parse are omitted;
// the errors are available from [*Parser.Errors] until the next call.
func (p *Parser) Parse(tokens []Token) *Node {
	p.tokens = tokens
	p.current = 0
	p.generatedIDs = make(map[string]struct{})
	p.errs = nil
	doc := &Node{Kind: DocumentKind}
	for !p.isAtEnd() {
		n, err := p.block()
		if err != nil {
			p.logger().Warn().Err(err).Msg("skipping malformed block")
			p.errs = append(p.errs, err)
			p.advance()
			continue
		}
		if n != nil {
			doc.Children = append(doc.Children, n)
		}
	}
	return doc
}

// Errors returns the errors recovered during the last call to Parse.
func (p *Parser) Errors() []error {
	return p.errs
}

func (p *Parser) logger() *zerolog.Logger {
	if p.Logger == nil {
		l := zerolog.Nop()
		return &l
	}
	return p.Logger
}

// block parses one block, converting a *ParseError panic into an error.
func (p *Parser) block() (n *Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(*ParseError)
			if !ok {
				panic(r)
			}
			p.terminators = p.terminators[:0]
			p.interrupted = p.interrupted[:0]
			p.resume = p.resume[:0]
			err = perr
		}
	}()
	return p.parseBlock(), nil
}

func (p *Parser) fail(format string, args ...any) {
	tok := p.peek()
	panic(&ParseError{
		Pos:   tok.Pos,
		Token: tok.Kind,
		Msg:   fmt.Sprintf(format, args...),
	})
}

func (p *Parser) peek() Token {
	if p.current >= len(p.tokens) {
		if len(p.tokens) == 0 {
			return Token{Kind: EOFToken}
		}
		last := p.tokens[len(p.tokens)-1]
		return Token{Kind: EOFToken, Pos: last.Pos}
	}
	return p.tokens[p.current]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == EOFToken
}

func (p *Parser) check(kind TokenKind) bool {
	return !p.isAtEnd() && p.peek().Kind == kind
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if !p.isAtEnd() {
		p.current++
	}
	return tok
}

func (p *Parser) match(kind TokenKind) bool {
	if !p.check(kind) {
		return false
	}
	p.current++
	return true
}

func (p *Parser) consume(kind TokenKind, msg string) Token {
	if !p.check(kind) {
		p.fail("%s", msg)
	}
	return p.advance()
}

func (p *Parser) skip(kinds ...TokenKind) {
	for {
		matched := false
		for _, k := range kinds {
			if p.match(k) {
				matched = true
			}
		}
		if !matched {
			return
		}
	}
}

// skipBlankLines consumes the newline ending a block
// and at most one blank line after it.
func (p *Parser) skipBlankLines() {
	if p.match(NewlineToken) {
		p.match(NewlineToken)
	}
}

func (p *Parser) parseBlock() *Node {
	p.skip(WhitespaceToken)
	if p.isAtEnd() {
		return nil
	}
	switch tok := p.peek(); tok.Kind {
	case HeadingOpenToken:
		return p.parseHeading()
	case HorizRuleToken:
		p.advance()
		p.skipBlankLines()
		return &Node{Kind: RuleKind}
	case CalloutOpenToken:
		return p.parseCallout()
	case TableOpenToken:
		return p.parseTable()
	case AffiliToken:
		return p.parseInfoTable()
	case ImageOpenToken:
		n := p.parseImage()
		p.skipBlankLines()
		return n
	case TripleParenthesesToken:
		n := p.parseNotice()
		p.skipBlankLines()
		return n
	default:
		return p.parseParagraph()
	}
}

func (p *Parser) parseParagraph() *Node {
	children := p.inlineUntil(NewlineToken)
	p.skipBlankLines()
	if len(children) == 0 {
		return nil
	}
	return &Node{Kind: ParagraphKind, Children: children}
}

func (p *Parser) parseHeading() *Node {
	open := p.advance()
	openLevel := utf8.RuneCountInString(open.Value)
	p.skip(WhitespaceToken)
	children := p.inlineUntil(HeadingCloseToken)
	closeLevel := utf8.RuneCountInString(p.consume(HeadingCloseToken, "expected '=' to close heading").Value)
	switch {
	case openLevel > closeLevel:
		children = append(children, Text("="))
	case openLevel < closeLevel:
		children = append([]*Node{Text("=")}, children...)
	}
	children = trimSpaceNodes(children)
	id := p.headingID(children)
	p.skipBlankLines()
	return &Node{
		Kind:     HeadingKind,
		Children: children,
		Heading: &HeadingInfo{
			Level: max(min(7-openLevel, 6), 1),
			ID:    id,
		},
	}
}

func trimSpaceNodes(nodes []*Node) []*Node {
	isSpace := func(n *Node) bool { return n.IsText() && n.Value == " " }
	for len(nodes) > 0 && isSpace(nodes[0]) {
		nodes = nodes[1:]
	}
	for len(nodes) > 0 && isSpace(nodes[len(nodes)-1]) {
		nodes = nodes[:len(nodes)-1]
	}
	return nodes
}

var headingIDStripRE = regexp.MustCompile(`[^a-zA-Z0-9 ]`)

// headingID derives a unique anchor ID from plain-text heading content.
func (p *Parser) headingID(children []*Node) string {
	if !allText(children) {
		p.fail("heading content must be plain text")
	}
	base := strings.ToLower(strings.TrimSpace(joinText(children)))
	base = headingIDStripRE.ReplaceAllString(base, "")
	base = strings.ReplaceAll(base, " ", "_")

	id := base
	for i := 1; ; i++ {
		if _, taken := p.generatedIDs[id]; !taken {
			break
		}
		id = fmt.Sprintf("%s_%d", base, i)
	}
	p.generatedIDs[id] = struct{}{}
	return id
}

func (p *Parser) parseCallout() *Node {
	open := p.advance()
	typ := open.CalloutType
	if typ == "" {
		typ = DefaultCallout
	}
	p.skip(WhitespaceToken, NewlineToken)
	children := p.inlineUntil(CalloutCloseToken)
	p.consume(CalloutCloseToken, "expected '</callout>' to close callout")
	p.skipBlankLines()
	return &Node{
		Kind:     CalloutKind,
		Children: children,
		Callout: &CalloutInfo{
			Type:  typ,
			Title: open.CalloutTitle,
		},
	}
}

func (p *Parser) parseNotice() *Node {
	tok := p.consume(TripleParenthesesToken, "expected notice")
	command, date, ok := ParseNotice(tok.Value)
	if !ok {
		p.fail("malformed notice %q", tok.Value)
	}
	return &Node{
		Kind:   TripleParenthesesKind,
		Notice: &NoticeInfo{Command: command, Date: date},
	}
}

func (p *Parser) parseInfoTable() *Node {
	tok := p.consume(AffiliToken, "expected affili tag")
	p.skipBlankLines()
	return &Node{
		Kind:       InfoTableAffiliKind,
		Attributes: tok.Attributes,
	}
}
