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

package infobox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRoster(t *testing.T) {
	r := DefaultRoster()
	assert.Equal(t, "Gehenna Academy", r.Schools["gehenna"])
	assert.Equal(t, "Sorasaki Hina", r.FullName("hina"))
	assert.Equal(t, "sensei", r.FullName("sensei"))

	club, ok := r.ClubOf("hina")
	require.True(t, ok)
	assert.Equal(t, "prefect", club.Code)
	assert.Equal(t, "prefect", club.DisplayName())

	club, ok = r.ClubOf("sensei")
	require.True(t, ok)
	assert.Equal(t, "schale", club.Code, "first listed club wins")
	assert.Equal(t, "S.C.H.A.L.E", club.DisplayName())

	_, ok = r.ClubOf("nobody")
	assert.False(t, ok)
}

func TestRenderAffili(t *testing.T) {
	r := DefaultRoster()
	got, err := r.RenderAffili("shiroko", "abydos")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, `<table id="lawe-infoTable" class="affili">`))
	assert.Contains(t, got, `<a href="/wiki/setting/abydos">Abydos High School</a>`)
	assert.Contains(t, got, `<img src="`+DefaultImageBaseURL+`/icons/abydos.png" width="100" alt="The logo of Abydos High School." loading="lazy" />`)
	assert.Contains(t, got, `<h3>Foreclosure Task Force</h3>`)
	for _, name := range []string{"Sunaookami Shiroko", "Takanashi Hoshino", "Izayoi Nonomi", "Kuromi Serika", "Okusora Ayane"} {
		assert.Contains(t, got, `<li class="border-b p-2"><a>`+name+`</a></li>`)
	}
}

func TestRenderAffiliEscapes(t *testing.T) {
	r := &Roster{
		Schools: map[string]string{"x": `<X & Y>`},
		Clubs:   []Club{{Code: "c&c", Members: []string{"m"}}},
	}
	got, err := r.RenderAffili("m", "x")
	require.NoError(t, err)
	assert.Contains(t, got, `&lt;X &amp; Y&gt;`)
	assert.Contains(t, got, `<h3>c&amp;c</h3>`)
	assert.NotContains(t, got, `<X & Y>`)
}

func TestRenderAffiliPathEscapes(t *testing.T) {
	r := &Roster{
		Schools: map[string]string{"red winter/x?": "Red Winter"},
		Clubs:   []Club{{Code: "c", Members: []string{"m"}}},
	}
	got, err := r.RenderAffili("m", "red winter/x?")
	require.NoError(t, err)
	assert.Contains(t, got, `<a href="/wiki/setting/red%20winter%2Fx%3F">Red Winter</a>`)
	assert.Contains(t, got, `href="/wiki/setting/academies/red%20winter%2Fx%3F"`)
	assert.Contains(t, got, `/icons/red%20winter%2Fx%3F.png"`)
	assert.NotContains(t, got, "red winter/x?")
}

func TestRenderAffiliUnknownMember(t *testing.T) {
	_, err := DefaultRoster().RenderAffili("nobody", "abydos")
	assert.ErrorIs(t, err, ErrUnknownMember)
}

func TestParseRoster(t *testing.T) {
	r, err := ParseRoster([]byte("clubs:\n  - code: a\n    members: [x, y]\nimageBaseURL: https://img.example\n"))
	require.NoError(t, err)
	require.Len(t, r.Clubs, 1)
	assert.Equal(t, []string{"x", "y"}, r.Clubs[0].Members)
	assert.Equal(t, "https://img.example", r.ImageBaseURL)

	_, err = ParseRoster([]byte("clubs: {"))
	assert.Error(t, err)
}
