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

package site

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lorearchive/lawe"
	"github.com/lorearchive/lawe/source"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const abydos = "====== Abydos ======\n\n\nA school in the desert.\n\n=== History ===\nOld."

func rawPage(name, content string) *source.RawPage {
	return &source.RawPage{
		Slug:         []string{"lore", name},
		FilePath:     "/content/lore/" + name + ".txt",
		Content:      content,
		LastModified: time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC),
		Size:         int64(len(content)),
	}
}

func newProcessor(tb testing.TB, cfg Config, opts *Options) *Processor {
	tb.Helper()
	p, err := NewProcessor(cfg, opts)
	require.NoError(tb, err)
	return p
}

func TestProcessPage(t *testing.T) {
	p := newProcessor(t, DefaultConfig(), nil)
	page, err := p.ProcessPage(context.Background(), rawPage("abydos", abydos))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(page.HTML, `<div id="lawe-heading-1-div" class="lawe-heading-div"><h1 id="abydos"`), "HTML = %s", page.HTML)
	assert.Contains(t, page.HTML, "<p>A school in the desert.</p>")
	assert.Equal(t, "Abydos", page.Title)
	assert.Equal(t, "A school in the desert.", page.Excerpt)
	assert.Equal(t, 8, page.WordCount)
	assert.Equal(t, []TOCItem{
		{Level: 1, Title: "Abydos", Anchor: "abydos"},
		{Level: 4, Title: "History", Anchor: "history"},
	}, page.TOC)
	assert.Equal(t, []string{"lore", "abydos"}, page.Slug)
	assert.Equal(t, abydos, page.RawContent)
	assert.Equal(t, int64(len(abydos)), page.Size)
	assert.Empty(t, page.Warnings)
}

func TestProcessPageNoTOC(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GenerateTOC = false
	cfg.ValidateOutput = false
	p := newProcessor(t, cfg, nil)
	page, err := p.ProcessPage(context.Background(), rawPage("plain", "Just text."))
	require.NoError(t, err)
	assert.Nil(t, page.TOC)
	assert.Equal(t, "<p>Just text.</p>", page.HTML)
	assert.Equal(t, "Plain", page.Title)
}

func TestProcessPageErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		cfg     func(*Config)
		opts    *Options
		stage   Stage
		target  error
	}{
		{
			name:    "Lexing",
			content: "x",
			opts:    &Options{Lexer: new(lawe.Lexer)},
			stage:   StageLexing,
		},
		{
			name:    "StrictParsing",
			content: "====== T ======\n== **x** ==",
			cfg:     func(c *Config) { c.Strict = true },
			stage:   StageParsing,
		},
		{
			name:    "Rendering",
			content: "====== T ======\n<callout type=\"bogus\">x</callout>",
			stage:   StageRendering,
		},
		{
			name:    "Empty",
			content: "",
			stage:   StageValidation,
			target:  ErrEmptyOutput,
		},
		{
			name:    "NoHeading",
			content: "Just text.\n====== T ======",
			stage:   StageValidation,
			target:  ErrNoLeadingHeading,
		},
		{
			name:    "SmallHeading",
			content: "== T ==",
			stage:   StageValidation,
			target:  ErrNoLeadingHeading,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if test.cfg != nil {
				test.cfg(&cfg)
			}
			p := newProcessor(t, cfg, test.opts)
			raw := rawPage("bad", test.content)
			_, err := p.ProcessPage(context.Background(), raw)
			var perr *ProcessError
			require.True(t, errors.As(err, &perr), "err = %v", err)
			assert.Equal(t, test.stage, perr.Stage)
			assert.Equal(t, raw.FilePath, perr.FilePath)
			assert.Equal(t, raw.Slug, perr.Slug)
			if test.target != nil {
				assert.ErrorIs(t, err, test.target)
			}
		})
	}
}

func TestProcessPageWarnings(t *testing.T) {
	p := newProcessor(t, DefaultConfig(), nil)
	page, err := p.ProcessPage(context.Background(), rawPage("warn", "====== T ======\n== **x** ==\nafter"))
	require.NoError(t, err)
	require.Len(t, page.Warnings, 1)
	assert.Contains(t, page.Warnings[0], "heading content must be plain text")
	assert.Contains(t, page.HTML, "<p>after</p>")
}

func TestProcessStripEmptyLines(t *testing.T) {
	assert.Equal(t, "a\nb\nc", emptyLineRE.ReplaceAllString("a\n\n  \nb\n\t\nc", ""))
}

func TestProcess(t *testing.T) {
	metrics := NewMetrics()
	p := newProcessor(t, DefaultConfig(), &Options{Metrics: metrics})
	raws := []*source.RawPage{
		rawPage("abydos", abydos),
		rawPage("bad", "no heading"),
		rawPage("gehenna", "====== Gehenna ======\nHot."),
	}
	ctx := context.Background()

	pages, stats, err := p.Process(ctx, raws)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "Abydos", pages[0].Title)
	assert.Equal(t, "Gehenna", pages[1].Title)
	assert.Equal(t, 3, stats.TotalPages)
	assert.Equal(t, 2, stats.SuccessfulPages)
	assert.Equal(t, 1, stats.FailedPages)
	assert.Equal(t, 0, stats.CacheHits)
	require.Len(t, stats.Errors, 1)
	assert.Equal(t, StageValidation, stats.Errors[0].Stage)
	assert.Equal(t, raws[1].FilePath, stats.Errors[0].FilePath)
	assert.Equal(t, (pages[0].ProcessingTime+pages[1].ProcessingTime)/2, stats.AverageTime)

	again, stats, err := p.Process(ctx, raws)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CacheHits)
	assert.Same(t, pages[0], again[0])
	assert.Same(t, pages[1], again[1])

	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.pages.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.pages.WithLabelValues("failure")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.failures.WithLabelValues("validation")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.cacheHits))
}

func TestProcessCacheKey(t *testing.T) {
	p := newProcessor(t, DefaultConfig(), nil)
	ctx := context.Background()
	raw := rawPage("abydos", abydos)
	first, err := p.ProcessPage(ctx, raw)
	require.NoError(t, err)

	changed := *raw
	changed.Content = "====== Changed ======"
	changed.LastModified = raw.LastModified.Add(time.Minute)
	second, err := p.ProcessPage(ctx, &changed)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, "Changed", second.Title)
}

func TestProcessCacheContentChange(t *testing.T) {
	p := newProcessor(t, DefaultConfig(), nil)
	ctx := context.Background()
	raw := rawPage("abydos", abydos)
	first, err := p.ProcessPage(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, "Abydos", first.Title)

	// An uncommitted edit keeps the git commit date.
	edited := *raw
	edited.Content = "====== Edited ======\nNew text."
	second, err := p.ProcessPage(ctx, &edited)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, "Edited", second.Title)
	assert.Contains(t, second.HTML, "<p>New text.</p>")

	again, err := p.ProcessPage(ctx, &edited)
	require.NoError(t, err)
	assert.Same(t, second, again)
}

func TestProcessCanceled(t *testing.T) {
	p := newProcessor(t, DefaultConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := p.Process(ctx, []*source.RawPage{rawPage("abydos", abydos)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPageJSON(t *testing.T) {
	p := newProcessor(t, DefaultConfig(), nil)
	page, err := p.ProcessPage(context.Background(), rawPage("abydos", abydos))
	require.NoError(t, err)
	data, err := json.Marshal(page)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Abydos", got["title"])
	assert.Equal(t, float64(8), got["wordCount"])
	assert.NotContains(t, got, "HTML")
	assert.NotContains(t, got, "RawContent")
}

func TestMetricsWriteTextfile(t *testing.T) {
	metrics := NewMetrics()
	p := newProcessor(t, DefaultConfig(), &Options{Metrics: metrics})
	_, _, err := p.Process(context.Background(), []*source.RawPage{rawPage("abydos", abydos)})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "lawe.prom")
	require.NoError(t, metrics.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `lawe_pages_processed_total{result="success"} 1`)
	assert.Contains(t, string(data), "lawe_page_processing_seconds_count 1")
}
