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

// Package sitemap writes sitemap.xml files for wiki pages.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/lorearchive/lawe"
)

// Namespace is the sitemap protocol XML namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// An Entry is one page location.
type Entry struct {
	Loc     string
	LastMod time.Time
}

type urlset struct {
	XMLName xml.Name  `xml:"urlset"`
	Xmlns   string    `xml:"xmlns,attr"`
	URLs    []urlElem `xml:"url"`
}

type urlElem struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Write writes entries as a sitemap document.
// Entries with a zero LastMod have no lastmod element.
func Write(w io.Writer, entries []Entry) error {
	set := urlset{Xmlns: Namespace, URLs: make([]urlElem, 0, len(entries))}
	for _, e := range entries {
		u := urlElem{Loc: e.Loc}
		if !e.LastMod.IsZero() {
			u.LastMod = e.LastMod.UTC().Format(time.RFC3339)
		}
		set.URLs = append(set.URLs, u)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write sitemap: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("write sitemap: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write sitemap: %w", err)
	}
	return nil
}

// PageURL returns the absolute URL of the wiki page with the given slug.
func PageURL(siteURL string, slug []string) (string, error) {
	base, err := url.Parse(siteURL)
	if err != nil {
		return "", fmt.Errorf("page url: %w", err)
	}
	if !base.IsAbs() {
		return "", fmt.Errorf("page url: %q is not absolute", siteURL)
	}
	prefix := strings.Trim(lawe.WikiPathPrefix, "/")
	return base.JoinPath(append([]string{prefix}, slug...)...).String(), nil
}
