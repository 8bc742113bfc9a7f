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

package canon

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLowercaseRedirect(t *testing.T) {
	tests := []struct {
		url  string
		want string
		ok   bool
	}{
		{url: "https://lorearchive.org/wiki/lore/abydos", ok: false},
		{url: "https://lorearchive.org/wiki/Lore/Abydos", want: "https://lorearchive.org/wiki/lore/abydos", ok: true},
		{url: "https://lorearchive.org/Wiki?Q=Keep#Frag", want: "https://lorearchive.org/wiki?Q=Keep#Frag", ok: true},
		{url: "https://LoreArchive.org/wiki", ok: false},
		{url: "https://lorearchive.org/wiki/caf%C3%A9", ok: false},
		{url: "https://lorearchive.org/wiki/A%2Fb", want: "https://lorearchive.org/wiki/a%2fb", ok: true},
		{url: "/wiki/Relative", ok: false},
		{url: "http://[::1", ok: false},
	}
	for _, test := range tests {
		got, ok := LowercaseRedirect(test.url)
		if got != test.want || ok != test.ok {
			t.Errorf("LowercaseRedirect(%q) = %q, %t; want %q, %t", test.url, got, ok, test.want, test.ok)
		}
	}
}

func TestHandler(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := Handler(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wiki/Lore/Abydos?x=1", nil))
	if rec.Code != http.StatusMovedPermanently {
		t.Errorf("status = %d; want %d", rec.Code, http.StatusMovedPermanently)
	}
	if got, want := rec.Header().Get("Location"), "/wiki/lore/abydos?x=1"; got != want {
		t.Errorf("Location = %q; want %q", got, want)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wiki/lore", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d; want %d", rec.Code, http.StatusTeapot)
	}
}
