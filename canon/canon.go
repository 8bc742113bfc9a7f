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

// Package canon canonicalizes wiki URLs.
package canon

import (
	"net/http"
	"net/url"
	"strings"
)

// LowercaseRedirect returns rawURL with its path lower-cased
// and reports whether that differs from rawURL's path.
// It returns "", false for URLs that are not absolute
// or whose path is already lower case.
func LowercaseRedirect(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() {
		return "", false
	}
	target, ok := lowerPath(u)
	if !ok {
		return "", false
	}
	return target.String(), true
}

func lowerPath(u *url.URL) (*url.URL, bool) {
	lower := strings.ToLower(u.Path)
	if lower == u.Path {
		return nil, false
	}
	target := *u
	target.Path = lower
	// Falls back to the default encoding of Path if this no longer matches.
	target.RawPath = strings.ToLower(u.RawPath)
	return &target, true
}

// Handler redirects requests for paths with upper-case letters
// to the lower-case path with a 301 and serves everything else with next.
func Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if target, ok := lowerPath(r.URL); ok {
			http.Redirect(w, r, target.RequestURI(), http.StatusMovedPermanently)
			return
		}
		next.ServeHTTP(w, r)
	})
}
