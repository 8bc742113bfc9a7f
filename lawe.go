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

// Package lawe converts wiki markup into HTML.
//
// The markup is DokuWiki-like:
// **bold**, //italic//, __underline__, == headings ==, [[links]],
// {{images?width|captions}}, ((footnotes)) and a few HTML-like tags
// such as <callout>, <table> and <affili />.
//
// Conversion runs in three stages.
// A [Lexer] turns text into [Token] values,
// a [Parser] builds a tree of [Node] values,
// and an [HTMLRenderer] writes the tree as HTML.
// [Convert] runs all three with default settings.
package lawe

import "fmt"

// Convert renders markup text as HTML using default settings.
// Malformed blocks are dropped rather than reported;
// use a [Parser] directly to inspect them.
func Convert(text string) (string, error) {
	tokens, err := Tokenise(text)
	if err != nil {
		return "", fmt.Errorf("convert: %w", err)
	}
	return Render(Parse(tokens))
}
