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

package format

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lorearchive/lawe"
)

const sampleDoc = `== Title ==
Hello **world**.

<table><tr><th>A</th><td>B</td></tr><tr><td>C</td></tr></table>
{{/a.png?10|Alt text}}
Foot((note)) and [[lore/some_page]].`

func parse(tb testing.TB, markup string) *lawe.Node {
	tb.Helper()
	tokens, err := lawe.Tokenise(markup)
	if err != nil {
		tb.Fatal(err)
	}
	return lawe.Parse(tokens)
}

func TestPlainText(t *testing.T) {
	got := PlainText(parse(t, sampleDoc))
	want := "Title\n\nHello world.\n\nA B\nC\n\nAlt text\n\nFoot and some page."
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PlainText (-want +got):\n%s", diff)
	}
}

func TestWordCount(t *testing.T) {
	if got, want := WordCount(parse(t, sampleDoc)), 12; got != want {
		t.Errorf("WordCount = %d; want %d", got, want)
	}
	if got := WordCount(parse(t, "")); got != 0 {
		t.Errorf("WordCount(empty) = %d; want 0", got)
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		slug   []string
		want   string
	}{
		{"Heading", sampleDoc, []string{"x"}, "Title"},
		{"SecondBlockHeading", "intro\n=== Later ===", nil, "Later"},
		{"FromSlug", "no heading", []string{"lore", "blue-archive"}, "Blue Archive"},
		{"Untitled", "", nil, "Untitled"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Title(parse(t, test.markup), test.slug); got != test.want {
				t.Errorf("Title = %q; want %q", got, test.want)
			}
		})
	}
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		maxLen int
		want   string
	}{
		{"FirstParagraph", sampleDoc, 200, "Hello world."},
		{"Truncated", "one two three four", 9, "one two..."},
		{"NoParagraph", "== Only ==", 200, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Excerpt(parse(t, test.markup), test.maxLen); got != test.want {
				t.Errorf("Excerpt = %q; want %q", got, test.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize(parse(t, sampleDoc), []string{"lore", "sample"})
	want := Summary{Title: "Title", Excerpt: "Hello world.", WordCount: 12}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize (-want +got):\n%s", diff)
	}
}
