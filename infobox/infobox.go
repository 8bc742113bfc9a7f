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

// Package infobox renders the info-box cards embedded in wiki pages
// with the <affili> tag.
package infobox

import (
	_ "embed"
	"errors"
	"fmt"
	"html"
	"net/url"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// A Club is a named group of people.
type Club struct {
	Code    string   `yaml:"code"`
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

// DisplayName returns the club's full name, falling back to its code.
func (c *Club) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Code
}

// A Roster holds the people, clubs and schools known to info-box cards.
type Roster struct {
	Schools map[string]string `yaml:"schools"`
	// Clubs are searched in order by [Roster.ClubOf].
	Clubs  []Club            `yaml:"clubs"`
	People map[string]string `yaml:"people"`

	// ImageBaseURL is the prefix for school logo images.
	ImageBaseURL string `yaml:"imageBaseURL"`
}

// DefaultImageBaseURL is the image prefix used when a roster does not set one.
const DefaultImageBaseURL = "https://raw.githubusercontent.com/lorearchive/law-content/main/images"

// ErrUnknownMember is returned when a name does not belong to any club.
var ErrUnknownMember = errors.New("no club found for member")

//go:embed roster.yaml
var defaultRosterData []byte

// ParseRoster decodes a roster from YAML.
func ParseRoster(data []byte) (*Roster, error) {
	r := new(Roster)
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	return r, nil
}

// DefaultRoster returns a new copy of the built-in roster.
func DefaultRoster() *Roster {
	r, err := ParseRoster(defaultRosterData)
	if err != nil {
		panic(err)
	}
	return r
}

// ClubOf returns the first club listing the given member.
func (r *Roster) ClubOf(member string) (*Club, bool) {
	for i := range r.Clubs {
		if slices.Contains(r.Clubs[i].Members, member) {
			return &r.Clubs[i], true
		}
	}
	return nil, false
}

// FullName returns a person's full name, falling back to the key itself.
func (r *Roster) FullName(member string) string {
	if full := r.People[member]; full != "" {
		return full
	}
	return member
}

// RenderAffili returns the affiliation card for a member of a school.
// Unknown schools render with an empty school name,
// but a member outside every club is an error.
func (r *Roster) RenderAffili(name, school string) (string, error) {
	club, ok := r.ClubOf(name)
	if !ok {
		return "", fmt.Errorf("render affiliation for %q: %w", name, ErrUnknownMember)
	}
	imageBase := r.ImageBaseURL
	if imageBase == "" {
		imageBase = DefaultImageBaseURL
	}
	schoolName := html.EscapeString(r.Schools[school])
	schoolKey := html.EscapeString(url.PathEscape(school))

	sb := new(strings.Builder)
	sb.WriteString(`<table id="lawe-infoTable" class="affili"><thead class="thead-no-style"><tr>`)
	sb.WriteString(`<th id="lawe-infoTable-th" class="pretitle" colspan="2">A member of<br /><h3 class="h3-no-spacing">`)
	fmt.Fprintf(sb, `<a href="/wiki/setting/%s">%s</a></h3></th></tr></thead><tbody>`, schoolKey, schoolName)
	sb.WriteString(`<tr><td id="lawe-infoTable-school-cell" class="no-spacing" colspan="2"><figure id="lawe-figure" class="figure-no-style">`)
	fmt.Fprintf(sb, `<a id="lawe-figure-a" class="a-no-style" href="/wiki/setting/academies/%s">`, schoolKey)
	fmt.Fprintf(sb, `<img src="%s/icons/%s.png" width="100" alt="The logo of %s." loading="lazy" /></a></figure></td></tr>`,
		html.EscapeString(imageBase), schoolKey, schoolName)
	sb.WriteString(`<tr><td class="center" colspan="2"><div id="clubMemberList">`)
	fmt.Fprintf(sb, `<h3>%s</h3>`, html.EscapeString(club.DisplayName()))
	sb.WriteString(`<div class="max-w-xs flex flex-col border-r border-t border-l border-gray-500 rounded-md"><ul>`)
	for _, m := range club.Members {
		fmt.Fprintf(sb, `<li class="border-b p-2"><a>%s</a></li>`, html.EscapeString(r.FullName(m)))
	}
	sb.WriteString(`</ul></div></div></td></tr></tbody></table>`)
	return sb.String(), nil
}
