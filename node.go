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
	"strconv"
	"strings"
)

// NodeKind is an enumeration of AST node types.
type NodeKind uint16

const (
	DocumentKind NodeKind = 1 + iota
	ParagraphKind
	HeadingKind
	BoldKind
	ItalicKind
	UnderlineKind
	SubscriptKind
	SuperscriptKind
	TextKind
	RuleKind
	LinebreakKind
	NewlineKind
	CalloutKind
	TableKind
	TableHeadKind
	TableBodyKind
	TableFootKind
	TableRowKind
	TableCellKind
	TableHeaderCellKind
	ImageKind
	LinkKind
	InfoTableAffiliKind
	FootnoteKind
	CitationNeededKind
	TripleParenthesesKind
)

var nodeKindNames = [...]string{
	DocumentKind:          "Document",
	ParagraphKind:         "Paragraph",
	HeadingKind:           "Heading",
	BoldKind:              "Bold",
	ItalicKind:            "Italic",
	UnderlineKind:         "Underline",
	SubscriptKind:         "Subscript",
	SuperscriptKind:       "Superscript",
	TextKind:              "Text",
	RuleKind:              "Rule",
	LinebreakKind:         "Linebreak",
	NewlineKind:           "Newline",
	CalloutKind:           "Callout",
	TableKind:             "Table",
	TableHeadKind:         "TableHead",
	TableBodyKind:         "TableBody",
	TableFootKind:         "TableFoot",
	TableRowKind:          "TableRow",
	TableCellKind:         "TableCell",
	TableHeaderCellKind:   "TableHeaderCell",
	ImageKind:             "Image",
	LinkKind:              "Link",
	InfoTableAffiliKind:   "InfoTableAffili",
	FootnoteKind:          "Footnote",
	CitationNeededKind:    "CitationNeeded",
	TripleParenthesesKind: "TripleParentheses",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) && nodeKindNames[k] != "" {
		return nodeKindNames[k]
	}
	return "NodeKind(" + strconv.Itoa(int(k)) + ")"
}

// A Node is an element of the document tree.
//
// Kind determines which of the variant fields are meaningful:
// Value is set on Text nodes,
// Attributes on table-family and InfoTableAffili nodes,
// and each pointer payload only on its namesake kind.
type Node struct {
	Kind     NodeKind
	Children []*Node

	Value string
	// Attributes holds pseudo-HTML attributes.
	// Values are already HTML-escaped.
	Attributes map[string]string

	Heading *HeadingInfo
	Callout *CalloutInfo
	Image   *ImageInfo
	Link    *LinkInfo
	Notice  *NoticeInfo
}

// HeadingInfo is the payload of a Heading node.
type HeadingInfo struct {
	Level int
	ID    string
}

// CalloutInfo is the payload of a Callout node.
type CalloutInfo struct {
	Type  CalloutType
	Title string // HTML-escaped
}

// ImageInfo is the payload of an Image node.
type ImageInfo struct {
	Src     string
	Alt     string
	Width   string
	Format  string
	Loading string
	Align   string
}

// LinkInfo is the payload of a Link node.
// Text is the plain display text;
// links with formatted display text carry it in the node's Children instead.
type LinkInfo struct {
	Type LinkType
	Href string
	Text string
	// ExplicitText reports whether Text was written after a '|'
	// rather than defaulted to the target.
	ExplicitText bool

	Namespace string
	Page      string
	Anchor    string

	InterwikiDest string
	InterwikiID   string
}

// NoticeInfo is the payload of a TripleParentheses node.
type NoticeInfo struct {
	Command string
	Date    string
}

// Text returns a new Text node.
func Text(s string) *Node {
	return &Node{Kind: TextKind, Value: s}
}

// ChildCount returns the number of children the node has.
// Calling ChildCount on nil returns 0.
func (n *Node) ChildCount() int {
	if n == nil {
		return 0
	}
	return len(n.Children)
}

// Child returns the i'th child of the node.
func (n *Node) Child(i int) *Node {
	return n.Children[i]
}

// IsText reports whether the node is a Text node.
func (n *Node) IsText() bool {
	return n != nil && n.Kind == TextKind
}

// PlainText concatenates the values of all Text descendants of n.
func (n *Node) PlainText() string {
	sb := new(strings.Builder)
	Walk(n, &WalkOptions{
		Pre: func(c *Cursor) bool {
			if c.Node().IsText() {
				sb.WriteString(c.Node().Value)
			}
			return true
		},
	})
	return sb.String()
}

func allText(nodes []*Node) bool {
	for _, n := range nodes {
		if !n.IsText() {
			return false
		}
	}
	return true
}

func joinText(nodes []*Node) string {
	sb := new(strings.Builder)
	for _, n := range nodes {
		sb.WriteString(n.Value)
	}
	return sb.String()
}
