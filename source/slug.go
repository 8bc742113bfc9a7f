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

package source

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	slugSpaceRE = regexp.MustCompile(`\s+`)
	slugStripRE = regexp.MustCompile(`[^a-z0-9_\-]`)
	slugDashRE  = regexp.MustCompile(`--+`)
)

// Slug converts path components into URL-safe slug components.
// Letters are lower-cased and stripped of diacritics,
// whitespace becomes '-' and anything outside [a-z0-9_-] is dropped.
// Components that end up empty are removed.
func Slug(components []string) []string {
	slug := make([]string, 0, len(components))
	for _, c := range components {
		if s := slugComponent(c); s != "" {
			slug = append(slug, s)
		}
	}
	return slug
}

func slugComponent(s string) string {
	s = norm.NFKD.String(s)
	s = strings.Map(func(c rune) rune {
		if unicode.Is(unicode.Mn, c) {
			return -1
		}
		return unicode.ToLower(c)
	}, s)
	s = slugSpaceRE.ReplaceAllString(s, "-")
	s = slugStripRE.ReplaceAllString(s, "")
	s = slugDashRE.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
