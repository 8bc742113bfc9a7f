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

package sitemap

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestWrite(t *testing.T) {
	entries := []Entry{
		{Loc: "https://lorearchive.org/wiki/lore/abydos", LastMod: time.Date(2024, time.May, 1, 12, 0, 0, 0, time.FixedZone("JST", 9*60*60))},
		{Loc: "https://lorearchive.org/wiki/a&b"},
	}
	sb := new(strings.Builder)
	if err := Write(sb, entries); err != nil {
		t.Fatal(err)
	}
	want := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url>
    <loc>https://lorearchive.org/wiki/lore/abydos</loc>
    <lastmod>2024-05-01T03:00:00Z</lastmod>
  </url>
  <url>
    <loc>https://lorearchive.org/wiki/a&amp;b</loc>
  </url>
</urlset>
`
	if diff := cmp.Diff(want, sb.String()); diff != "" {
		t.Errorf("Write(...) (-want +got):\n%s", diff)
	}
}

func TestPageURL(t *testing.T) {
	tests := []struct {
		site string
		slug []string
		want string
		err  bool
	}{
		{site: "https://lorearchive.org", slug: []string{"lore", "abydos"}, want: "https://lorearchive.org/wiki/lore/abydos"},
		{site: "https://lorearchive.org/", slug: []string{"index"}, want: "https://lorearchive.org/wiki/index"},
		{site: "https://example.com/base/", slug: []string{"a"}, want: "https://example.com/base/wiki/a"},
		{site: "/relative", slug: []string{"a"}, err: true},
		{site: "://bad", slug: []string{"a"}, err: true},
	}
	for _, test := range tests {
		got, err := PageURL(test.site, test.slug)
		if test.err {
			if err == nil {
				t.Errorf("PageURL(%q, %q) = %q, <nil>; want error", test.site, test.slug, got)
			}
			continue
		}
		if err != nil || got != test.want {
			t.Errorf("PageURL(%q, %q) = %q, %v; want %q, <nil>", test.site, test.slug, got, err, test.want)
		}
	}
}
