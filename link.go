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
	"net/url"
	"regexp"
	"strings"
)

// LinkType classifies a link target.
type LinkType string

const (
	InternalLink LinkType = "internal"
	ExternalLink LinkType = "external"
	AnchorLink   LinkType = "anchor"
)

// An Interwiki describes how to build a URL for an interwiki prefix.
type Interwiki struct {
	BaseURL      string
	PathTemplate string // {id} is replaced by the escaped identifier
}

// Interwikis maps interwiki prefixes (as in [[wp>Topic]]) to their sites.
var Interwikis = map[string]Interwiki{
	"wp": {BaseURL: "https://en.wikipedia.org", PathTemplate: "/wiki/{id}"},
	"yt": {BaseURL: "https://www.youtube.com", PathTemplate: "/watch?v={id}"},
}

var (
	interwikiRE    = regexp.MustCompile(`^([a-z]+)>(.+)$`)
	externalURLRE  = regexp.MustCompile(`^https?://`)
	internalLinkRE = regexp.MustCompile(`^[a-zA-Z0-9_\-/:#]+$`)
	slashRunRE     = regexp.MustCompile(`/+`)
)

// A LinkTarget is the result of [ValidateLinkTarget].
type LinkTarget struct {
	Valid bool
	Type  LinkType
	// Error describes why an invalid target was rejected.
	Error string

	Namespace string
	Page      string
	Anchor    string

	InterwikiDest string
	InterwikiID   string
}

// ValidateLinkTarget classifies the target of a [[target|text]] link.
// Interwiki and http(s) targets are external,
// targets starting with '#' are anchors
// and everything else must be an internal wiki path.
func ValidateLinkTarget(target string) LinkTarget {
	trimmed := strings.TrimSpace(target)
	if trimmed == "" {
		return LinkTarget{Type: InternalLink, Error: "empty link target"}
	}

	if m := interwikiRE.FindStringSubmatch(trimmed); m != nil {
		prefix, id := m[1], strings.TrimSpace(m[2])
		if _, ok := Interwikis[prefix]; !ok {
			return LinkTarget{Type: ExternalLink, Error: "unknown wiki prefix: " + prefix}
		}
		if id == "" {
			return LinkTarget{Type: ExternalLink, Error: "empty " + prefix + " identifier"}
		}
		return LinkTarget{
			Valid:         true,
			Type:          ExternalLink,
			InterwikiDest: prefix,
			InterwikiID:   id,
		}
	}

	if externalURLRE.MatchString(trimmed) {
		return LinkTarget{Valid: true, Type: ExternalLink}
	}

	if anchor, ok := strings.CutPrefix(trimmed, "#"); ok {
		if anchor == "" {
			return LinkTarget{Type: AnchorLink, Error: "empty anchor"}
		}
		return LinkTarget{Valid: true, Type: AnchorLink, Anchor: anchor}
	}

	if !internalLinkRE.MatchString(trimmed) {
		return LinkTarget{Type: InternalLink, Error: "invalid characters in internal link"}
	}
	parts := strings.Split(trimmed, "#")
	var anchor string
	if len(parts) > 1 {
		anchor = parts[1]
	}
	t := LinkTarget{Valid: true, Type: InternalLink, Anchor: anchor}
	segments := strings.Split(parts[0], "/")
	t.Page = segments[len(segments)-1]
	t.Namespace = strings.Join(segments[:len(segments)-1], "/")
	if t.Page == "" && t.Anchor == "" {
		return LinkTarget{Type: InternalLink, Error: "missing page name"}
	}
	return t
}

// NormalizeInternalLink cleans up a valid internal link target
// by trimming it, dropping one leading slash and collapsing repeated slashes.
// Other targets are returned unchanged.
func NormalizeInternalLink(target string) string {
	if t := ValidateLinkTarget(target); !t.Valid || t.Type != InternalLink {
		return target
	}
	s := strings.TrimSpace(target)
	s = strings.TrimPrefix(s, "/")
	return slashRunRE.ReplaceAllString(s, "/")
}

// InterwikiURL returns the URL of id on the site registered for prefix.
func InterwikiURL(prefix, id string) (string, bool) {
	iw, ok := Interwikis[prefix]
	if !ok {
		return "", false
	}
	return iw.BaseURL + strings.ReplaceAll(iw.PathTemplate, "{id}", escapeURIComponent(id)), true
}

func escapeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// LinkHandler recognizes [[ and ]] link delimiters
// and the text separator inside a link.
type LinkHandler struct{}

func (LinkHandler) Priority() int { return LinkPriority }

func (LinkHandler) CanHandle(ctx *LexerContext) bool {
	return ctx.MatchString("[[") || ctx.MatchString("]]") || ctx.Peek(0) == '|'
}

func (LinkHandler) Handle(ctx *LexerContext, tokens *Tokens, stack *TagStack) bool {
	switch {
	case ctx.MatchString("[["):
		ctx.Advance(2)
		stack.Push(LinkOpenToken)
		tokens.Push(ctx.CreateToken(LinkOpenToken, "[["))
		return true
	case ctx.MatchString("]]"):
		if !stack.Close(LinkOpenToken) {
			return false
		}
		ctx.Advance(2)
		tokens.Push(ctx.CreateToken(LinkCloseToken, "]]"))
		return true
	case ctx.Peek(0) == '|' && stack.Contains(LinkOpenToken):
		ctx.Advance(1)
		tokens.Push(ctx.CreateToken(LinkPipeToken, "|"))
		return true
	default:
		return false
	}
}
