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

// Package format extracts plain text and page metadata
// from a parsed wiki document.
package format

import (
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lorearchive/lawe"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultExcerptLength is the excerpt length used by [Summarize].
const DefaultExcerptLength = 200

// Text writes the readable text of a node to w.
// Blocks are separated by blank lines
// and table rows by single newlines.
// Footnotes and markup-only nodes contribute nothing.
func Text(w io.Writer, n *lawe.Node) error {
	ww := &errWriter{w: w}
	lawe.Walk(n, &lawe.WalkOptions{
		Pre: func(c *lawe.Cursor) bool {
			return visit(ww, c.Node())
		},
		Post: func(c *lawe.Cursor) bool {
			if isBlock(c.Node().Kind) {
				ww.separate("\n\n")
			}
			return ww.err == nil
		},
	})
	return ww.err
}

func visit(w *errWriter, n *lawe.Node) bool {
	switch n.Kind {
	case lawe.TextKind:
		w.text(n.Value)
		return false
	case lawe.LinebreakKind, lawe.NewlineKind:
		w.separate("\n")
		return false
	case lawe.TableRowKind:
		w.separate("\n")
	case lawe.TableCellKind, lawe.TableHeaderCellKind:
		w.separate(" ")
	case lawe.ImageKind:
		w.separate("\n\n")
		if n.Image != nil {
			w.text(n.Image.Alt)
		}
		return false
	case lawe.LinkKind:
		if len(n.Children) == 0 && n.Link != nil {
			w.text(n.Link.DisplayText())
			return false
		}
	case lawe.FootnoteKind, lawe.CitationNeededKind, lawe.InfoTableAffiliKind, lawe.TripleParenthesesKind, lawe.RuleKind:
		return false
	}
	if isBlock(n.Kind) {
		w.separate("\n\n")
	}
	return true
}

func isBlock(k lawe.NodeKind) bool {
	switch k {
	case lawe.ParagraphKind, lawe.HeadingKind, lawe.CalloutKind, lawe.TableKind, lawe.ImageKind:
		return true
	default:
		return false
	}
}

// PlainText returns the readable text of a node as written by [Text].
func PlainText(n *lawe.Node) string {
	sb := new(strings.Builder)
	Text(sb, n) // strings.Builder never fails
	return sb.String()
}

// Title returns the text of the document's first heading.
// Without a heading, the last slug component is title-cased
// with hyphens read as spaces.
// An empty slug yields "Untitled".
func Title(doc *lawe.Node, slug []string) string {
	var title string
	lawe.Walk(doc, &lawe.WalkOptions{
		Pre: func(c *lawe.Cursor) bool {
			if title != "" {
				return false
			}
			if c.Node().Kind == lawe.HeadingKind {
				title = strings.TrimSpace(PlainText(c.Node()))
				return false
			}
			return true
		},
	})
	if title != "" {
		return title
	}
	if len(slug) == 0 || slug[len(slug)-1] == "" {
		return "Untitled"
	}
	words := strings.ReplaceAll(slug[len(slug)-1], "-", " ")
	return cases.Title(language.English).String(words)
}

var partialWordRE = regexp.MustCompile(`\s+\S*$`)

// Excerpt returns the text of the document's first paragraph,
// shortened to at most maxLen runes (plus an ellipsis)
// without cutting a word in half.
func Excerpt(doc *lawe.Node, maxLen int) string {
	var first *lawe.Node
	for _, c := range doc.Children {
		if c.Kind == lawe.ParagraphKind {
			first = c
			break
		}
	}
	if first == nil {
		return ""
	}
	text := strings.Join(strings.Fields(PlainText(first)), " ")
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	cut := string([]rune(text)[:maxLen])
	return partialWordRE.ReplaceAllString(cut, "") + "..."
}

// WordCount returns the number of whitespace-separated words
// in the readable text of a node.
func WordCount(n *lawe.Node) int {
	return len(strings.Fields(PlainText(n)))
}

// A Summary is the metadata shown in page listings.
type Summary struct {
	Title     string `json:"title"`
	Excerpt   string `json:"excerpt"`
	WordCount int    `json:"wordCount"`
}

// Summarize computes a page's [Summary].
func Summarize(doc *lawe.Node, slug []string) Summary {
	return Summary{
		Title:     Title(doc, slug),
		Excerpt:   Excerpt(doc, DefaultExcerptLength),
		WordCount: WordCount(doc),
	}
}

// errWriter writes text with pending separators
// that are only emitted between pieces of text.
type errWriter struct {
	w          io.Writer
	hasWritten bool
	pending    string
	err        error
}

// separate requests a separator before the next text.
// The longest pending separator wins.
func (w *errWriter) separate(sep string) {
	if len(sep) > len(w.pending) {
		w.pending = sep
	}
}

func (w *errWriter) text(s string) {
	if s == "" {
		return
	}
	if w.hasWritten && w.pending != "" {
		w.WriteString(w.pending)
	}
	w.pending = ""
	w.WriteString(s)
}

func (w *errWriter) WriteString(s string) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	n, w.err = io.WriteString(w.w, s)
	w.hasWritten = w.hasWritten || n > 0
	return n, w.err
}
