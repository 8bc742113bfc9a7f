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

// Package site runs wiki pages through the conversion pipeline in batches.
package site

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lorearchive/lawe"
	"github.com/lorearchive/lawe/format"
	"github.com/lorearchive/lawe/source"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// A Stage is a step of the page pipeline.
type Stage string

// Pipeline stages.
const (
	StageLexing     Stage = "lexing"
	StageParsing    Stage = "parsing"
	StageRendering  Stage = "rendering"
	StageValidation Stage = "validation"
)

// A ProcessError reports a page that failed at one pipeline stage.
type ProcessError struct {
	Stage    Stage
	FilePath string
	Slug     []string
	Err      error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("process %s: %s: %v", e.FilePath, e.Stage, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Validation failures.
var (
	ErrEmptyOutput      = errors.New("generated HTML is empty")
	ErrNoLeadingHeading = errors.New("HTML must begin with an h1 heading")
)

// DefaultMaxProcessingTime is the processing time above which a page is reported as slow.
const DefaultMaxProcessingTime = 7 * time.Second

// Config controls a [Processor].
type Config struct {
	// ValidateOutput rejects pages whose HTML is empty
	// or does not start with a level 1 heading.
	ValidateOutput bool
	// StripEmptyLines removes blank lines before lexing.
	StripEmptyLines bool
	// GenerateTOC fills in [Page.TOC].
	GenerateTOC bool
	// Strict fails pages that had malformed blocks
	// instead of dropping those blocks.
	Strict bool
	// MaxProcessingTime is the duration above which a slow page is logged.
	// Zero disables the warning.
	MaxProcessingTime time.Duration
	// Workers limits concurrent page processing. Zero means GOMAXPROCS.
	Workers int
	// CacheSize is the number of processed pages kept in memory.
	// Zero disables caching.
	CacheSize int
}

// DefaultConfig returns the configuration used by the build command.
func DefaultConfig() Config {
	return Config{
		ValidateOutput:    true,
		StripEmptyLines:   true,
		GenerateTOC:       true,
		MaxProcessingTime: DefaultMaxProcessingTime,
		CacheSize:         1024,
	}
}

// A TOCItem is a table of contents entry.
type TOCItem struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

// A Page is a processed wiki page.
type Page struct {
	Slug       []string `json:"slug"`
	FilePath   string   `json:"filePath"`
	RawContent string   `json:"-"`
	HTML       string   `json:"-"`
	format.Summary
	TOC            []TOCItem     `json:"toc,omitempty"`
	LastModified   time.Time     `json:"lastModified"`
	Size           int64         `json:"size"`
	ProcessingTime time.Duration `json:"processingTime"`
	// Warnings holds the malformed blocks that were dropped.
	Warnings []string `json:"warnings,omitempty"`
}

// Stats summarizes a batch.
type Stats struct {
	TotalPages      int
	SuccessfulPages int
	FailedPages     int
	CacheHits       int
	TotalTime       time.Duration
	// AverageTime is the mean processing time of successful pages.
	AverageTime time.Duration
	Errors      []*ProcessError
}

// A Processor converts raw pages into HTML pages.
// It is safe for concurrent use.
type Processor struct {
	config   Config
	lexer    *lawe.Lexer
	renderer *lawe.HTMLRenderer
	logger   *zerolog.Logger
	metrics  *Metrics
	cache    *lru.Cache[string, *Page]
}

// Options holds the optional collaborators of a [Processor].
type Options struct {
	// Lexer tokenises pages. Nil uses [lawe.NewLexer].
	Lexer *lawe.Lexer
	// Renderer writes HTML. Nil uses a zero [lawe.HTMLRenderer].
	Renderer *lawe.HTMLRenderer
	Logger   *zerolog.Logger
	// Metrics, if not nil, receives batch measurements.
	Metrics *Metrics
}

// NewProcessor returns a new processor.
func NewProcessor(cfg Config, opts *Options) (*Processor, error) {
	if opts == nil {
		opts = new(Options)
	}
	p := &Processor{
		config:   cfg,
		lexer:    opts.Lexer,
		renderer: opts.Renderer,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
	}
	if p.lexer == nil {
		p.lexer = lawe.NewLexer()
	}
	if p.renderer == nil {
		p.renderer = new(lawe.HTMLRenderer)
	}
	if p.logger == nil {
		l := zerolog.Nop()
		p.logger = &l
	}
	if cfg.CacheSize > 0 {
		cache, err := lru.New[string, *Page](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("new processor: %w", err)
		}
		p.cache = cache
	}
	return p, nil
}

var emptyLineRE = regexp.MustCompile(`(?m)^\s*\n`)

// cacheKey identifies a page version.
// Content is hashed because git commit dates do not change for uncommitted edits.
func cacheKey(raw *source.RawPage) string {
	sum := sha256.Sum256([]byte(raw.Content))
	return fmt.Sprintf("%s:%d:%x", raw.FilePath, raw.LastModified.UnixMilli(), sum)
}

// ProcessPage runs one page through the pipeline.
// Failures are returned as a *[ProcessError].
func (p *Processor) ProcessPage(ctx context.Context, raw *source.RawPage) (*Page, error) {
	page, _, err := p.processPage(ctx, raw)
	return page, err
}

func (p *Processor) processPage(ctx context.Context, raw *source.RawPage) (_ *Page, cached bool, _ error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	key := cacheKey(raw)
	if p.cache != nil {
		if page, ok := p.cache.Get(key); ok {
			if p.metrics != nil {
				p.metrics.cacheHits.Inc()
			}
			return page, true, nil
		}
	}

	start := time.Now()
	content := raw.Content
	if p.config.StripEmptyLines {
		content = emptyLineRE.ReplaceAllString(content, "")
	}
	fail := func(stage Stage, err error) (*Page, bool, error) {
		if p.metrics != nil {
			p.metrics.failures.WithLabelValues(string(stage)).Inc()
		}
		return nil, false, &ProcessError{Stage: stage, FilePath: raw.FilePath, Slug: raw.Slug, Err: err}
	}

	tokens, err := p.lexer.Tokenise(content)
	if err != nil {
		return fail(StageLexing, err)
	}

	parser := &lawe.Parser{Logger: p.pageLogger(raw)}
	doc := parser.Parse(tokens)
	parseErrs := parser.Errors()
	if p.metrics != nil {
		p.metrics.parseErrors.Add(float64(len(parseErrs)))
	}
	if p.config.Strict && len(parseErrs) > 0 {
		return fail(StageParsing, errors.Join(parseErrs...))
	}

	html, err := p.renderer.AppendNode(nil, doc)
	if err != nil {
		return fail(StageRendering, err)
	}

	var toc []TOCItem
	if p.config.ValidateOutput || p.config.GenerateTOC {
		hdoc, err := validateHTML(html, p.config.ValidateOutput)
		if err != nil {
			return fail(StageValidation, err)
		}
		if p.config.GenerateTOC {
			toc = tableOfContents(hdoc)
		}
	}

	elapsed := time.Since(start)
	if p.config.MaxProcessingTime > 0 && elapsed > p.config.MaxProcessingTime {
		p.logger.Warn().
			Str("path", raw.FilePath).
			Dur("elapsed", elapsed).
			Msg("slow page")
	}
	page := &Page{
		Slug:           raw.Slug,
		FilePath:       raw.FilePath,
		RawContent:     raw.Content,
		HTML:           string(html),
		Summary:        format.Summarize(doc, raw.Slug),
		TOC:            toc,
		LastModified:   raw.LastModified,
		Size:           raw.Size,
		ProcessingTime: elapsed,
	}
	for _, err := range parseErrs {
		page.Warnings = append(page.Warnings, err.Error())
	}
	if p.metrics != nil {
		p.metrics.processingTime.Observe(elapsed.Seconds())
	}
	if p.cache != nil {
		p.cache.Add(key, page)
	}
	return page, false, nil
}

func (p *Processor) pageLogger(raw *source.RawPage) *zerolog.Logger {
	l := p.logger.With().Str("path", raw.FilePath).Logger()
	return &l
}

// Process runs pages through the pipeline concurrently.
// Failed pages are reported in the returned stats and do not stop the batch;
// an error is returned only if ctx is done.
// Successful pages keep the order of raws.
func (p *Processor) Process(ctx context.Context, raws []*source.RawPage) ([]*Page, *Stats, error) {
	start := time.Now()
	p.logger.Info().Int("pages", len(raws)).Msg("processing wiki pages")

	results := make([]*Page, len(raws))
	errs := make([]*ProcessError, len(raws))
	var hits atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	workers := p.config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)
	for i, raw := range raws {
		g.Go(func() error {
			page, cached, err := p.processPage(ctx, raw)
			var perr *ProcessError
			switch {
			case errors.As(err, &perr):
				p.logger.Error().Err(perr.Err).
					Str("path", perr.FilePath).
					Str("stage", string(perr.Stage)).
					Msg("failed to process page")
				errs[i] = perr
				return nil
			case err != nil:
				return err
			}
			results[i] = page
			if cached {
				hits.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("process pages: %w", err)
	}

	stats := &Stats{
		TotalPages: len(raws),
		CacheHits:  int(hits.Load()),
		TotalTime:  time.Since(start),
	}
	pages := make([]*Page, 0, len(raws))
	var total time.Duration
	for i, page := range results {
		if page != nil {
			pages = append(pages, page)
			total += page.ProcessingTime
		}
		if errs[i] != nil {
			stats.Errors = append(stats.Errors, errs[i])
		}
	}
	stats.SuccessfulPages = len(pages)
	stats.FailedPages = len(stats.Errors)
	if len(pages) > 0 {
		stats.AverageTime = total / time.Duration(len(pages))
	}
	if p.metrics != nil {
		p.metrics.pages.WithLabelValues("success").Add(float64(stats.SuccessfulPages))
		p.metrics.pages.WithLabelValues("failure").Add(float64(stats.FailedPages))
	}

	ev := p.logger.Info()
	if stats.FailedPages > 0 {
		ev = p.logger.Warn()
	}
	ev.Int("successful", stats.SuccessfulPages).
		Int("total", stats.TotalPages).
		Int("cacheHits", stats.CacheHits).
		Dur("elapsed", stats.TotalTime).
		Msg("processing complete")
	return pages, stats, nil
}

// validateHTML parses rendered HTML.
// If strict is set, it also checks that the output is not empty
// and starts with a level 1 heading block.
func validateHTML(html []byte, strict bool) (*goquery.Document, error) {
	trimmed := bytes.TrimSpace(html)
	if strict && len(trimmed) == 0 {
		return nil, ErrEmptyOutput
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(trimmed))
	if err != nil {
		return nil, err
	}
	if !strict {
		return doc, nil
	}
	first := doc.Find("body").Children().First()
	if !bytes.HasPrefix(trimmed, []byte("<div")) || !first.Children().First().Is("h1") {
		return nil, ErrNoLeadingHeading
	}
	return doc, nil
}

func tableOfContents(doc *goquery.Document) []TOCItem {
	var toc []TOCItem
	doc.Find("div.lawe-heading-div").Each(func(_ int, s *goquery.Selection) {
		h := s.Children().First()
		name := goquery.NodeName(h)
		if len(name) != 2 || name[0] != 'h' || name[1] < '1' || name[1] > '6' {
			return
		}
		id, _ := h.Attr("id")
		toc = append(toc, TOCItem{
			Level:  int(name[1] - '0'),
			Title:  normalizeSpace(h.Text()),
			Anchor: id,
		})
	})
	return toc
}

var spaceRE = regexp.MustCompile(`\s+`)

func normalizeSpace(s string) string {
	return strings.TrimSpace(spaceRE.ReplaceAllString(s, " "))
}
