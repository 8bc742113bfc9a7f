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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidateLinkTarget(t *testing.T) {
	tests := []struct {
		target string
		want   LinkTarget
	}{
		{
			target: "",
			want:   LinkTarget{Type: InternalLink, Error: "empty link target"},
		},
		{
			target: "wp>Blue Archive",
			want:   LinkTarget{Valid: true, Type: ExternalLink, InterwikiDest: "wp", InterwikiID: "Blue Archive"},
		},
		{
			target: "xx>Thing",
			want:   LinkTarget{Type: ExternalLink, Error: "unknown wiki prefix: xx"},
		},
		{
			target: "http://example.com/a?b=c",
			want:   LinkTarget{Valid: true, Type: ExternalLink},
		},
		{
			target: "#section",
			want:   LinkTarget{Valid: true, Type: AnchorLink, Anchor: "section"},
		},
		{
			target: "#",
			want:   LinkTarget{Type: AnchorLink, Error: "empty anchor"},
		},
		{
			target: " page ",
			want:   LinkTarget{Valid: true, Type: InternalLink, Page: "page"},
		},
		{
			target: "lore/characters/hina#bio",
			want:   LinkTarget{Valid: true, Type: InternalLink, Namespace: "lore/characters", Page: "hina", Anchor: "bio"},
		},
		{
			target: "lore/",
			want:   LinkTarget{Type: InternalLink, Error: "missing page name"},
		},
		{
			target: "a page",
			want:   LinkTarget{Type: InternalLink, Error: "invalid characters in internal link"},
		},
	}
	for _, test := range tests {
		if diff := cmp.Diff(test.want, ValidateLinkTarget(test.target)); diff != "" {
			t.Errorf("ValidateLinkTarget(%q) (-want +got):\n%s", test.target, diff)
		}
	}
}

func TestNormalizeInternalLink(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"/lore//abydos", "lore/abydos"},
		{" page ", "page"},
		{"//a///b", "/a/b"},
		{"https://example.com//x", "https://example.com//x"},
		{"bad target", "bad target"},
	}
	for _, test := range tests {
		if got := NormalizeInternalLink(test.target); got != test.want {
			t.Errorf("NormalizeInternalLink(%q) = %q; want %q", test.target, got, test.want)
		}
	}
}

func TestInterwikiURL(t *testing.T) {
	tests := []struct {
		prefix, id string
		want       string
		ok         bool
	}{
		{"wp", "Blue Archive", "https://en.wikipedia.org/wiki/Blue%20Archive", true},
		{"yt", "a&b", "https://www.youtube.com/watch?v=a%26b", true},
		{"zz", "x", "", false},
	}
	for _, test := range tests {
		got, ok := InterwikiURL(test.prefix, test.id)
		if got != test.want || ok != test.ok {
			t.Errorf("InterwikiURL(%q, %q) = %q, %t; want %q, %t", test.prefix, test.id, got, ok, test.want, test.ok)
		}
	}
}

func TestParseNotice(t *testing.T) {
	tests := []struct {
		content       string
		command, date string
		ok            bool
	}{
		{"unfinished|2024-01-01", "unfinished", "2024-01-01", true},
		{"(((external | May 2024)))", "external", "May 2024", true},
		{"contextwarn|", "", "", false},
		{"bogus|2024", "", "", false},
		{"unfinished|a|b", "", "", false},
		{"unfinished|<b>", "", "", false},
	}
	for _, test := range tests {
		command, date, ok := ParseNotice(test.content)
		if command != test.command || date != test.date || ok != test.ok {
			t.Errorf("ParseNotice(%q) = %q, %q, %t; want %q, %q, %t",
				test.content, command, date, ok, test.command, test.date, test.ok)
		}
	}
}
