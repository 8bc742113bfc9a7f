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

// Package normhtml normalizes rendered wiki HTML
// so that tests can ignore insignificant output differences,
// such as whitespace between block elements, attribute order
// and the contents of inline SVG icons.
package normhtml

import (
	"bytes"
	"cmp"
	"regexp"
	"slices"
	"unicode"

	"go4.org/bytereplacer"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

var htmlEscaper = bytereplacer.New(
	"&", "&amp;",
	`'`, "&apos;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

// NormalizeHTML strips insignificant output differences from HTML.
// An <svg> element is reduced to an empty <svg></svg> pair.
func NormalizeHTML(b []byte) []byte {
	type htmlAttribute struct {
		key   string
		value string
	}

	tok := html.NewTokenizerFragment(bytes.NewReader(b), "div")
	var output []byte
	last := html.StartTagToken
	var lastTag string
	svgDepth := 0
	for {
		tt := tok.Next()
		if svgDepth > 0 {
			switch tt {
			case html.ErrorToken:
				return output
			case html.StartTagToken:
				if name, _ := tok.TagName(); string(name) == "svg" {
					svgDepth++
				}
			case html.EndTagToken:
				if name, _ := tok.TagName(); string(name) == "svg" {
					svgDepth--
					if svgDepth == 0 {
						output = append(output, "</svg>"...)
						last, lastTag = tt, "svg"
					}
				}
			}
			continue
		}

		switch tt {
		case html.ErrorToken:
			return output
		case html.TextToken:
			data := whitespaceRE.ReplaceAll(tok.Text(), []byte(" "))
			afterTag := last == html.EndTagToken || last == html.StartTagToken
			if afterTag && isBlockTag(lastTag) {
				if last == html.StartTagToken {
					data = bytes.TrimLeftFunc(data, unicode.IsSpace)
				} else {
					data = bytes.TrimSpace(data)
				}
			}
			if afterTag && lastTag == "br" {
				data = bytes.TrimLeftFunc(data, unicode.IsSpace)
			}
			output = append(output, htmlEscaper.Replace(bytes.Clone(data))...)
		case html.EndTagToken:
			tagBytes, _ := tok.TagName()
			tag := string(tagBytes)
			if isBlockTag(tag) {
				output = bytes.TrimRightFunc(output, unicode.IsSpace)
			}
			output = append(output, "</"...)
			output = append(output, tag...)
			output = append(output, ">"...)
			lastTag = tag
		case html.StartTagToken, html.SelfClosingTagToken:
			tagBytes, hasAttr := tok.TagName()
			tag := string(tagBytes)
			if tag == "svg" {
				output = append(output, "<svg>"...)
				if tt == html.SelfClosingTagToken {
					output = append(output, "</svg>"...)
				} else {
					svgDepth = 1
				}
				last, lastTag = tt, tag
				continue
			}
			if isBlockTag(tag) {
				output = bytes.TrimRightFunc(output, unicode.IsSpace)
			}
			output = append(output, "<"...)
			output = append(output, tag...)
			if hasAttr {
				var attrs []htmlAttribute
				for {
					k, v, more := tok.TagAttr()
					attrs = append(attrs, htmlAttribute{string(k), string(v)})
					if !more {
						break
					}
				}
				slices.SortFunc(attrs, func(a, b htmlAttribute) int {
					return cmp.Compare(a.key, b.key)
				})
				for _, attr := range attrs {
					output = append(output, " "...)
					output = append(output, attr.key...)
					if attr.value != "" {
						output = append(output, `="`...)
						output = append(output, html.EscapeString(attr.value)...)
						output = append(output, `"`...)
					}
				}
			}
			output = append(output, ">"...)
			lastTag = tag
		case html.CommentToken:
			output = append(output, tok.Raw()...)
		}

		last = tt
		if tt == html.SelfClosingTagToken {
			last = html.EndTagToken
		}
	}
}

// blockTags are the block-level elements the wiki renderer emits.
var blockTags = map[atom.Atom]struct{}{
	atom.Div:        {},
	atom.P:          {},
	atom.H1:         {},
	atom.H2:         {},
	atom.H3:         {},
	atom.H4:         {},
	atom.H5:         {},
	atom.H6:         {},
	atom.Hr:         {},
	atom.Ol:         {},
	atom.Ul:         {},
	atom.Li:         {},
	atom.Figure:     {},
	atom.Figcaption: {},
	atom.Table:      {},
	atom.Thead:      {},
	atom.Tbody:      {},
	atom.Tfoot:      {},
	atom.Tr:         {},
	atom.Td:         {},
	atom.Th:         {},
}

func isBlockTag(tag string) bool {
	_, ok := blockTags[atom.Lookup([]byte(tag))]
	return ok
}
