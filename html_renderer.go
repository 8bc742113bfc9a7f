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
	"cmp"
	"errors"
	"fmt"
	"html"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lorearchive/lawe/icons"
	"github.com/lorearchive/lawe/infobox"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/atom"
)

// Default locations of wiki images.
const (
	DefaultImageBaseURL     = "https://raw.githubusercontent.com/lorearchive/law-content/main/images"
	DefaultImageLinkBaseURL = "https://github.com/lorearchive/law-content/tree/main/images"
)

// WikiPathPrefix is prepended to internal link targets.
const WikiPathPrefix = "/wiki/"

// An IconSource supplies inline SVG markup by icon name.
// Unknown names yield the empty string.
type IconSource interface {
	Markup(name string, opts icons.Options) string
}

// An InfoBoxRenderer renders the card for an <affili> tag.
type InfoBoxRenderer interface {
	RenderAffili(name, school string) (string, error)
}

// An ImageOptimizer replaces the default figure markup for images.
type ImageOptimizer interface {
	ImageHTML(img *ImageInfo) (string, error)
}

// An HTMLRenderer converts a document tree into HTML.
//
// Text content is always escaped.
// Attribute values that originate from pseudo-HTML tags
// were escaped by the lexer and are written as-is,
// so trees built by hand must escape them too.
type HTMLRenderer struct {
	// Icons supplies callout and notice icons.
	// If nil, [icons.Default] is used.
	Icons IconSource
	// InfoBoxes renders <affili> cards.
	// If nil, [infobox.DefaultRoster] is used.
	InfoBoxes InfoBoxRenderer
	// Images, if not nil, renders images in place of the default figure.
	Images ImageOptimizer

	// ImageBaseURL and ImageLinkBaseURL prefix relative image paths
	// for the img source and the surrounding link respectively.
	// Empty values use the package defaults.
	ImageBaseURL     string
	ImageLinkBaseURL string

	// Logger receives warnings about unrenderable nodes. Nil discards them.
	Logger *zerolog.Logger
}

var defaultRoster = infobox.DefaultRoster()

// Render renders a document using the default options for [HTMLRenderer].
func Render(doc *Node) (string, error) {
	b, err := new(HTMLRenderer).AppendNode(nil, doc)
	return string(b), err
}

// Render writes the HTML of a node to w.
func (r *HTMLRenderer) Render(w io.Writer, n *Node) error {
	b, err := r.AppendNode(nil, n)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// AppendNode appends the rendered HTML of a node to dst
// and returns the resulting byte slice.
// Footnotes are numbered per call;
// when n is a Document the notes section is appended after its content.
func (r *HTMLRenderer) AppendNode(dst []byte, n *Node) ([]byte, error) {
	state := &renderState{
		HTMLRenderer: r,
		dst:          dst,
	}
	state.node(n)
	if state.err != nil {
		return dst, fmt.Errorf("render html: %w", state.err)
	}
	return state.dst, nil
}

// renderState is the per-document render session.
type renderState struct {
	*HTMLRenderer
	dst       []byte
	footnotes [][]byte
	err       error
}

func (r *renderState) logger() *zerolog.Logger {
	if r.Logger == nil {
		l := zerolog.Nop()
		return &l
	}
	return r.Logger
}

func (r *renderState) icon(name string, opts icons.Options) string {
	if r.Icons == nil {
		return icons.Markup(name, opts)
	}
	return r.Icons.Markup(name, opts)
}

func (r *renderState) openTag(name atom.Atom) {
	r.dst = append(r.dst, '<')
	r.dst = append(r.dst, name.String()...)
	r.dst = append(r.dst, '>')
}

func (r *renderState) closeTag(name atom.Atom) {
	r.dst = append(r.dst, "</"...)
	r.dst = append(r.dst, name.String()...)
	r.dst = append(r.dst, '>')
}

func (r *renderState) wrap(name atom.Atom, n *Node) {
	r.openTag(name)
	r.children(n)
	r.closeTag(name)
}

func (r *renderState) children(n *Node) {
	for _, c := range n.Children {
		if r.err != nil {
			return
		}
		r.node(c)
	}
}

var headingTags = [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

func (r *renderState) node(n *Node) {
	if r.err != nil || n == nil {
		return
	}
	switch n.Kind {
	case DocumentKind:
		r.footnotes = nil
		r.children(n)
		r.notes()
	case ParagraphKind:
		r.wrap(atom.P, n)
	case HeadingKind:
		level := 1
		id := ""
		if n.Heading != nil {
			level = max(min(n.Heading.Level, 6), 1)
			id = n.Heading.ID
		}
		l := strconv.Itoa(level)
		tag := headingTags[level-1]
		r.dst = append(r.dst, `<div id="lawe-heading-`+l+`-div" class="lawe-heading-div"><`...)
		r.dst = append(r.dst, tag.String()...)
		r.dst = append(r.dst, ` id="`...)
		r.dst = escapeHTML(r.dst, []byte(id))
		r.dst = append(r.dst, `" class="lawe-heading-`+l+`"><span class="lawe-heading">`...)
		r.children(n)
		r.dst = append(r.dst, "</span>"...)
		r.closeTag(tag)
		r.dst = append(r.dst, "</div>"...)
	case BoldKind:
		r.wrap(atom.Strong, n)
	case ItalicKind:
		r.wrap(atom.Em, n)
	case UnderlineKind:
		r.wrap(atom.U, n)
	case SubscriptKind:
		r.wrap(atom.Sub, n)
	case SuperscriptKind:
		r.wrap(atom.Sup, n)
	case TextKind:
		r.dst = escapeHTML(r.dst, []byte(n.Value))
	case RuleKind:
		r.dst = append(r.dst, `<div id="horiz_rule"><hr /></div>`...)
	case LinebreakKind:
		r.dst = append(r.dst, "<br />"...)
	case NewlineKind:
		r.dst = append(r.dst, '\n')
	case CalloutKind:
		r.callout(n)
	case TableKind:
		r.table(atom.Table, n, attr{"id", "lawe-table"})
	case TableHeadKind:
		r.wrap(atom.Thead, n)
	case TableBodyKind:
		r.wrap(atom.Tbody, n)
	case TableFootKind:
		r.wrap(atom.Tfoot, n)
	case TableRowKind:
		r.wrap(atom.Tr, n)
	case TableCellKind:
		r.table(atom.Td, n)
	case TableHeaderCellKind:
		r.table(atom.Th, n, attr{"id", "lawe-table-header-cell"})
	case ImageKind:
		r.image(n.Image)
	case LinkKind:
		r.link(n)
	case InfoTableAffiliKind:
		r.affili(n)
	case FootnoteKind:
		r.footnote(n)
	case CitationNeededKind:
		r.dst = append(r.dst, `<sup class="citation-needed" title="Citation needed">[<em>citation needed</em>]</sup>`...)
	case TripleParenthesesKind:
		r.notice(n.Notice)
	default:
		r.logger().Warn().Stringer("kind", n.Kind).Msg("skipping unknown node")
	}
}

type attr struct {
	key, value string
}

// table renders a table-family element with merged attributes.
func (r *renderState) table(name atom.Atom, n *Node, defaults ...attr) {
	r.dst = append(r.dst, '<')
	r.dst = append(r.dst, name.String()...)
	r.dst = appendAttributes(r.dst, n.Attributes, defaults)
	r.dst = append(r.dst, '>')
	r.children(n)
	r.closeTag(name)
}

// appendAttributes merges node attributes over defaults and appends them.
// A node class is appended to the default class.
// Attributes with empty values are dropped.
// Defaults come first, then the remaining attributes in sorted order.
func appendAttributes(dst []byte, attrs map[string]string, defaults []attr) []byte {
	merged := slices.Clone(defaults)
	var extra []string
	for k := range attrs {
		if !slices.ContainsFunc(defaults, func(a attr) bool { return a.key == k }) {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	for i, a := range merged {
		v, ok := attrs[a.key]
		switch {
		case !ok:
		case a.key == "class" && a.value != "" && v != "":
			merged[i].value = a.value + " " + v
		default:
			merged[i].value = v
		}
	}
	for _, k := range extra {
		merged = append(merged, attr{k, attrs[k]})
	}
	for _, a := range merged {
		if strings.TrimSpace(a.value) == "" {
			continue
		}
		dst = append(dst, ' ')
		dst = append(dst, a.key...)
		dst = append(dst, `="`...)
		dst = append(dst, a.value...)
		dst = append(dst, '"')
	}
	return dst
}

var calloutIconSizes = map[CalloutType]int{
	DefaultCallout: icons.DefaultSize,
	SuccessCallout: icons.DefaultSize,
	InfoCallout:    28,
	WarningCallout: icons.DefaultSize,
	DangerCallout:  icons.DefaultSize,
}

func (r *renderState) callout(n *Node) {
	info := n.Callout
	if info == nil {
		info = &CalloutInfo{Type: DefaultCallout}
	}
	size, ok := calloutIconSizes[info.Type]
	if !ok {
		r.err = fmt.Errorf("unknown callout type %q", info.Type)
		return
	}
	typ := string(info.Type)
	r.dst = append(r.dst, `<div id="lawe-callout-`+typ+`" class="lawe-callout"><div id="lawe-callout-inner"><div id="lawe-callout-icon"><span id="lawe-callout-icon-span-`+typ+`">`...)
	r.dst = append(r.dst, r.icon(typ+"-calloutIcon", icons.Options{Size: size, ClassName: "mb-2"})...)
	r.dst = append(r.dst, "</span></div>"...)
	if info.Title != "" {
		r.dst = append(r.dst, `<span id="lawe-callout-title-span"><h4>`...)
		r.dst = append(r.dst, info.Title...)
		r.dst = append(r.dst, `</h4></span>`...)
	}
	r.dst = append(r.dst, `<span id="lawe-callout-span-body">`...)
	r.children(n)
	r.dst = append(r.dst, `</span></div></div>`...)
}

func (r *renderState) image(img *ImageInfo) {
	if img == nil {
		return
	}
	if r.Images != nil {
		s, err := r.Images.ImageHTML(img)
		if err != nil {
			r.err = fmt.Errorf("optimize image %s: %w", img.Src, err)
			return
		}
		r.dst = append(r.dst, s...)
		return
	}
	src, link := img.Src, img.Src
	if !externalURLRE.MatchString(img.Src) {
		src = cmp.Or(r.ImageBaseURL, DefaultImageBaseURL) + img.Src
		link = cmp.Or(r.ImageLinkBaseURL, DefaultImageLinkBaseURL) + img.Src
	}
	r.dst = append(r.dst, `<figure id="lawe-figure" class="lawe-figure-`...)
	r.dst = escapeHTML(r.dst, []byte(img.Align))
	r.dst = append(r.dst, `"><a id="lawe-figure-a" class="a-no-style" href="`...)
	r.dst = escapeHTML(r.dst, []byte(NormalizeURI(link)))
	r.dst = append(r.dst, `"><img src="`...)
	r.dst = escapeHTML(r.dst, []byte(NormalizeURI(src)))
	r.dst = append(r.dst, '"')
	if img.Width != "" {
		r.dst = append(r.dst, ` width="`...)
		r.dst = escapeHTML(r.dst, []byte(img.Width))
		r.dst = append(r.dst, '"')
	}
	r.dst = append(r.dst, ` alt="`...)
	r.dst = escapeHTML(r.dst, []byte(img.Alt))
	r.dst = append(r.dst, `" loading="`...)
	r.dst = escapeHTML(r.dst, []byte(cmp.Or(img.Loading, "lazy")))
	r.dst = append(r.dst, `" /></a>`...)
	if img.Alt != "" {
		r.openTag(atom.Figcaption)
		r.dst = escapeHTML(r.dst, []byte(img.Alt))
		r.closeTag(atom.Figcaption)
	}
	r.closeTag(atom.Figure)
}

func (r *renderState) link(n *Node) {
	info := n.Link
	if info == nil {
		r.children(n)
		return
	}
	var href, class string
	switch {
	case info.InterwikiDest != "":
		href, class = info.Href, string(ExternalLink)+" interwiki"
	case info.Type == ExternalLink:
		href, class = info.Href, string(ExternalLink)
	case info.Type == AnchorLink:
		href, class = "#"+info.Anchor, string(AnchorLink)
	default:
		href, class = WikiPathPrefix+strings.TrimPrefix(info.Href, "/"), string(InternalLink)
	}
	r.dst = append(r.dst, `<a href="`...)
	r.dst = escapeHTML(r.dst, []byte(NormalizeURI(href)))
	r.dst = append(r.dst, `" title="`...)
	r.dst = escapeHTML(r.dst, []byte(info.Text))
	r.dst = append(r.dst, `" id="lawe-link" class="`...)
	r.dst = append(r.dst, class...)
	r.dst = append(r.dst, `">`...)
	if len(n.Children) > 0 {
		r.children(n)
	} else {
		r.dst = escapeHTML(r.dst, []byte(info.DisplayText()))
	}
	r.closeTag(atom.A)
}

// DisplayText returns the text shown for a link without formatted children.
// Internal links without explicit text show their page name.
func (info *LinkInfo) DisplayText() string {
	if info.ExplicitText || info.Type != InternalLink {
		return info.Text
	}
	page := strings.TrimPrefix(info.Href, "/")
	page, _, _ = strings.Cut(page, "#")
	if i := strings.LastIndexByte(page, '/'); i >= 0 {
		page = page[i+1:]
	}
	page = strings.ReplaceAll(page, "_", " ")
	if page == "" {
		return info.Text
	}
	return page
}

func (r *renderState) affili(n *Node) {
	name := html.UnescapeString(n.Attributes["name"])
	school := html.UnescapeString(n.Attributes["school"])
	if name == "" || school == "" {
		r.err = errors.New("affili tag requires name and school")
		return
	}
	var boxes InfoBoxRenderer = defaultRoster
	if r.InfoBoxes != nil {
		boxes = r.InfoBoxes
	}
	s, err := boxes.RenderAffili(name, school)
	if err != nil {
		r.err = err
		return
	}
	r.dst = append(r.dst, s...)
}

func (r *renderState) footnote(n *Node) {
	// Reserve the slot first so nested footnotes number after this one.
	r.footnotes = append(r.footnotes, nil)
	idx := len(r.footnotes) - 1
	start := len(r.dst)
	r.children(n)
	r.footnotes[idx] = slices.Clone(r.dst[start:])
	r.dst = r.dst[:start]

	num := strconv.Itoa(idx + 1)
	r.dst = append(r.dst, `<sup id="fn_anchor-`+num+`" class="footnote"><a href="#fn-`+num+`" id="fnref-`+num+`" class="footnote-link">[`+num+`]</a></sup>`...)
}

func (r *renderState) notes() {
	if len(r.footnotes) == 0 {
		return
	}
	r.dst = append(r.dst, `<div id="lawe-heading-2-div" class="lawe-heading-div"><h2 id="notes" class="lawe-heading-2"><span class="lawe-heading">Notes</span></h2></div>`...)
	r.dst = append(r.dst, `<div class="footnotes-section"><ol class="footnotes-list">`...)
	for i, content := range r.footnotes {
		num := strconv.Itoa(i + 1)
		r.dst = append(r.dst, `<li id="fn-`+num+`" class="mb-4"><div class="footnote-content">`+num+`. <a href="#fnref-`+num+`" class="footnote-backref mr-2">⇈</a> `...)
		r.dst = append(r.dst, content...)
		r.dst = append(r.dst, `</div></li>`...)
	}
	r.dst = append(r.dst, `</ol></div>`...)
}

func (r *renderState) notice(info *NoticeInfo) {
	if info == nil {
		return
	}
	var iconName, body string
	color := ""
	switch info.Command {
	case NoticeExternal:
		iconName, color = "globe2", "black"
		body = `<strong>This article is for an external media.</strong> The material being described in this article are not part of the main story or game, and while most of them are considered canon, everything may not be. This wiki only provides the lore side of all external media.`
	case NoticeUnfinished:
		iconName = "document-text"
		body = `This article is <strong>unfinished</strong>. Please wait patiently until the article is complete. You may help speed up the completion process by providing extra details or completing missing sections.`
	case NoticeContextWarn:
		iconName = "exclamation-triangle"
		body = `This article <strong>lacks context</strong>. Some statements may be misleading without the surrounding story. You can help by adding the missing context.`
	default:
		r.logger().Warn().Str("command", info.Command).Msg("skipping unknown notice")
		return
	}
	r.dst = append(r.dst, `<div id="lawe-alertnotif" class="alert alert-warning alertnotif" role="alert">`...)
	r.dst = append(r.dst, r.icon(iconName, icons.Options{ClassName: "mb-2", Color: color})...)
	r.dst = append(r.dst, "<p>"...)
	r.dst = append(r.dst, body...)
	r.dst = append(r.dst, `<br><span class="alertnotifsubtext"><em>(`...)
	r.dst = escapeHTML(r.dst, []byte(info.Date))
	r.dst = append(r.dst, `) &middot;`...)
	if info.Command == NoticeUnfinished {
		r.dst = append(r.dst, ` <a href="/wiki/alert_notifications">How do you know whether an article is finished?</a> &middot; <a href="#">Learn how and when to remove this message</a>`...)
	}
	r.dst = append(r.dst, `</em></span></p></div>`...)
}

// escapeHTML appends the HTML-escaped version of a byte slice to another byte slice.
func escapeHTML(dst []byte, src []byte) []byte {
	verbatimStart := 0
	for i, b := range src {
		var esc string
		switch b {
		case '&':
			esc = "&amp;"
		case '\'':
			// "&#39;" is shorter than "&apos;" and apos was not in HTML until HTML5.
			esc = "&#39;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		case '"':
			esc = "&quot;"
		default:
			continue
		}
		dst = append(dst, src[verbatimStart:i]...)
		dst = append(dst, esc...)
		verbatimStart = i + 1
	}
	return append(dst, src[verbatimStart:]...)
}

// NormalizeURI percent-encodes any characters in a string
// that are not reserved or unreserved URI characters.
// Existing percent-escapes are preserved.
func NormalizeURI(s string) string {
	// RFC 3986 reserved and unreserved characters.
	const safeSet = `;/?:@&=+$,-_.!~*'()#`

	sb := new(strings.Builder)
	sb.Grow(len(s))
	skip := 0
	var buf [utf8.UTFMax]byte
	for i, c := range s {
		if skip > 0 {
			skip--
			sb.WriteRune(c)
			continue
		}
		switch {
		case c == '%':
			if i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
				skip = 2
				sb.WriteByte('%')
			} else {
				sb.WriteString("%25")
			}
		case (c < 0x80 && (isASCIILetter(c) || isASCIIDigit(c))) || strings.ContainsRune(safeSet, c):
			sb.WriteRune(c)
		default:
			n := utf8.EncodeRune(buf[:], c)
			for _, b := range buf[:n] {
				sb.WriteByte('%')
				sb.WriteByte(urlHexDigit(b >> 4))
				sb.WriteByte(urlHexDigit(b & 0x0f))
			}
		}
	}
	return sb.String()
}

func isHex(c byte) bool {
	return 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F' || '0' <= c && c <= '9'
}

func urlHexDigit(x byte) byte {
	switch {
	case x < 0xa:
		return '0' + x
	case x < 0x10:
		return 'A' + x - 0xa
	default:
		panic("out of bounds")
	}
}
