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
	"strings"

	"go4.org/bytereplacer"
)

var attrEscaper = bytereplacer.New(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// escapeAttr returns s with HTML special characters escaped.
func escapeAttr(s string) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}
	return string(attrEscaper.Replace([]byte(s)))
}

// sanitizeAttributes keeps only the allowed attribute names from raw.
// Retained values are HTML-escaped
// and values using the javascript: scheme are blanked.
func sanitizeAttributes(allowed []string, raw map[string]string) map[string]string {
	clean := make(map[string]string, len(raw))
	for _, name := range allowed {
		v, ok := raw[name]
		if !ok {
			continue
		}
		if isScriptURL(v) {
			v = ""
		}
		clean[name] = escapeAttr(v)
	}
	return clean
}

func isScriptURL(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	// Browsers ignore embedded tabs and newlines in URL schemes.
	v = strings.Map(func(c rune) rune {
		if c == '\t' || c == '\n' || c == '\r' {
			return -1
		}
		return c
	}, v)
	return strings.HasPrefix(v, "javascript:")
}
