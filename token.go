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

import "strconv"

// TokenKind is an enumeration of lexical token types.
type TokenKind uint16

const (
	TextToken TokenKind = 1 + iota

	BoldOpenToken
	BoldCloseToken
	ItalicOpenToken
	ItalicCloseToken
	UnderlineOpenToken
	UnderlineCloseToken
	HeadingOpenToken
	HeadingCloseToken

	NewlineToken
	WhitespaceToken
	HorizRuleToken
	LinebreakToken

	CalloutOpenToken
	CalloutCloseToken
	SubOpenToken
	SubCloseToken
	SupOpenToken
	SupCloseToken
	TableOpenToken
	TableCloseToken
	TheadOpenToken
	TheadCloseToken
	TbodyOpenToken
	TbodyCloseToken
	TfootOpenToken
	TfootCloseToken
	TROpenToken
	TRCloseToken
	TDOpenToken
	TDCloseToken
	THOpenToken
	THCloseToken

	ImageOpenToken
	ImagePipeToken
	ImageCloseToken
	LinkOpenToken
	LinkPipeToken
	LinkCloseToken

	FootnoteOpenToken
	FootnoteCloseToken
	CitationNeededToken
	TripleParenthesesToken
	AffiliToken

	EOFToken
)

var tokenKindNames = [...]string{
	TextToken:              "TEXT",
	BoldOpenToken:          "BOLD_OPEN",
	BoldCloseToken:         "BOLD_CLOSE",
	ItalicOpenToken:        "ITALIC_OPEN",
	ItalicCloseToken:       "ITALIC_CLOSE",
	UnderlineOpenToken:     "UNDERLINE_OPEN",
	UnderlineCloseToken:    "UNDERLINE_CLOSE",
	HeadingOpenToken:       "HEADING_OPEN",
	HeadingCloseToken:      "HEADING_CLOSE",
	NewlineToken:           "NEWLINE",
	WhitespaceToken:        "WHITESPACE",
	HorizRuleToken:         "HORIZ_RULE",
	LinebreakToken:         "LINEBREAK",
	CalloutOpenToken:       "CALLOUT_OPEN",
	CalloutCloseToken:      "CALLOUT_CLOSE",
	SubOpenToken:           "SUB_OPEN",
	SubCloseToken:          "SUB_CLOSE",
	SupOpenToken:           "SUP_OPEN",
	SupCloseToken:          "SUP_CLOSE",
	TableOpenToken:         "TABLE_OPEN",
	TableCloseToken:        "TABLE_CLOSE",
	TheadOpenToken:         "THEAD_OPEN",
	TheadCloseToken:        "THEAD_CLOSE",
	TbodyOpenToken:         "TBODY_OPEN",
	TbodyCloseToken:        "TBODY_CLOSE",
	TfootOpenToken:         "TFOOT_OPEN",
	TfootCloseToken:        "TFOOT_CLOSE",
	TROpenToken:            "TR_OPEN",
	TRCloseToken:           "TR_CLOSE",
	TDOpenToken:            "TD_OPEN",
	TDCloseToken:           "TD_CLOSE",
	THOpenToken:            "TH_OPEN",
	THCloseToken:           "TH_CLOSE",
	ImageOpenToken:         "IMAGE_OPEN",
	ImagePipeToken:         "IMAGE_PIPE",
	ImageCloseToken:        "IMAGE_CLOSE",
	LinkOpenToken:          "LINK_OPEN",
	LinkPipeToken:          "LINK_PIPE",
	LinkCloseToken:         "LINK_CLOSE",
	FootnoteOpenToken:      "FOOTNOTE_OPEN",
	FootnoteCloseToken:     "FOOTNOTE_CLOSE",
	CitationNeededToken:    "CITATION_NEEDED",
	TripleParenthesesToken: "TRIPLE_PARENTHESES",
	AffiliToken:            "AFFILI",
	EOFToken:               "EOF",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) && tokenKindNames[k] != "" {
		return tokenKindNames[k]
	}
	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// MarshalText implements [encoding.TextMarshaler]
// by returning the kind's upper-case name.
func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// closeKinds maps each paired open kind to its close kind.
var closeKinds = map[TokenKind]TokenKind{
	BoldOpenToken:      BoldCloseToken,
	ItalicOpenToken:    ItalicCloseToken,
	UnderlineOpenToken: UnderlineCloseToken,
	HeadingOpenToken:   HeadingCloseToken,
	CalloutOpenToken:   CalloutCloseToken,
	SubOpenToken:       SubCloseToken,
	SupOpenToken:       SupCloseToken,
	TableOpenToken:     TableCloseToken,
	TheadOpenToken:     TheadCloseToken,
	TbodyOpenToken:     TbodyCloseToken,
	TfootOpenToken:     TfootCloseToken,
	TROpenToken:        TRCloseToken,
	TDOpenToken:        TDCloseToken,
	THOpenToken:        THCloseToken,
	ImageOpenToken:     ImageCloseToken,
	LinkOpenToken:      LinkCloseToken,
	FootnoteOpenToken:  FootnoteCloseToken,
}

// CloseKind returns the close kind paired with an open kind,
// or zero if k does not open a paired construct.
func (k TokenKind) CloseKind() TokenKind {
	return closeKinds[k]
}

// Position is a 1-based line and column in the source text.
// Columns count runes, not bytes.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (pos Position) String() string {
	return strconv.Itoa(pos.Line) + ":" + strconv.Itoa(pos.Column)
}

// CalloutType names the visual style of a callout block.
type CalloutType string

// Callout types understood by [HTMLRenderer].
const (
	DefaultCallout CalloutType = "default"
	SuccessCallout CalloutType = "success"
	InfoCallout    CalloutType = "info"
	WarningCallout CalloutType = "warning"
	DangerCallout  CalloutType = "danger"
)

// A Token is a single lexical unit produced by a [Lexer].
// Tokens are not modified after they are created.
type Token struct {
	Kind  TokenKind `json:"kind" yaml:"kind"`
	Value string    `json:"value" yaml:"value"`
	Pos   Position  `json:"pos" yaml:"pos"`

	// Attributes holds the sanitized attributes of a pseudo-HTML tag.
	// Values are already HTML-escaped.
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`

	// CalloutType and CalloutTitle are set on CalloutOpenToken.
	CalloutType  CalloutType `json:"calloutType,omitempty" yaml:"calloutType,omitempty"`
	CalloutTitle string      `json:"calloutTitle,omitempty" yaml:"calloutTitle,omitempty"`
}

func (tok Token) String() string {
	return tok.Pos.String() + " " + tok.Kind.String() + " " + strconv.Quote(tok.Value)
}

// Tokens is the output sequence a [TokenHandler] appends to.
type Tokens []Token

// Push appends a token to the sequence.
func (ts *Tokens) Push(tok Token) {
	*ts = append(*ts, tok)
}
