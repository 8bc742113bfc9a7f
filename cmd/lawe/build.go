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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/lorearchive/lawe/config"
	"github.com/lorearchive/lawe/site"
	"github.com/lorearchive/lawe/sitemap"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func addBuildFlags(cmd *cobra.Command) {
	defaults := config.DefaultConfig()
	f := cmd.Flags()
	f.String("content", defaults.Content.Dir, "content directory")
	f.String("repo", "", "git repository to fetch content from")
	f.String("branch", defaults.Content.Branch, "branch of --repo")
	f.Bool("no-git", false, "use file modification times instead of git history")
	f.String("out", defaults.Output.Dir, "output directory")
	f.String("metrics", "", "write Prometheus metrics to this file")
	f.Int("workers", 0, "concurrent pages (default GOMAXPROCS)")
	f.Bool("strict", false, "fail pages with malformed blocks")
	f.Int("cache-size", defaults.Build.CacheSize, "processed pages kept in memory")
	f.String("site-url", defaults.Site.URL, "public URL of the wiki, used in the sitemap")
	f.String("image-base", defaults.Images.BaseURL, "base URL for relative image paths")
}

func (a *app) buildCommand() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build HTML pages, pages.json and sitemap.xml from a content directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := newBuilder(a.cfg, &a.log, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := b.build(ctx); err != nil {
				return err
			}
			if watch {
				return b.watch(ctx)
			}
			return nil
		},
	}
	addBuildFlags(cmd)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild when content changes")
	return cmd
}

// A builder turns a content directory into a static site.
type builder struct {
	cfg     *config.Config
	log     *zerolog.Logger
	proc    *site.Processor
	metrics *site.Metrics
	out     io.Writer

	contentDir string
}

func newBuilder(cfg *config.Config, log *zerolog.Logger, out io.Writer) (*builder, error) {
	metrics := site.NewMetrics()
	proc, err := site.NewProcessor(cfg.ProcessorConfig(), &site.Options{
		Renderer: cfg.Renderer(log),
		Logger:   log,
		Metrics:  metrics,
	})
	if err != nil {
		return nil, err
	}
	return &builder{
		cfg:        cfg,
		log:        log,
		proc:       proc,
		metrics:    metrics,
		out:        out,
		contentDir: cfg.Content.Dir,
	}, nil
}

func (b *builder) build(ctx context.Context) (*site.Stats, error) {
	if remote := b.cfg.Remote(b.log); remote != nil {
		dir, err := remote.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		b.contentDir = dir
	}
	raws, err := b.cfg.Source(b.contentDir, b.log).Pages(ctx)
	if err != nil {
		return nil, err
	}
	pages, stats, err := b.proc.Process(ctx, raws)
	if err != nil {
		return nil, err
	}
	if err := b.write(pages); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	if path := b.cfg.Output.MetricsFile; path != "" {
		if err := b.metrics.WriteTextfile(path); err != nil {
			return nil, fmt.Errorf("build: write metrics: %w", err)
		}
	}
	b.summarize(stats)
	return stats, nil
}

// pagePath returns the output file of a page relative to the output directory.
func pagePath(slug []string) string {
	return filepath.Join("wiki", filepath.Join(slug...)+".html")
}

func (b *builder) write(pages []*site.Page) error {
	dir := b.cfg.Output.Dir
	entries := make([]sitemap.Entry, 0, len(pages))
	for _, page := range pages {
		path := filepath.Join(dir, pagePath(page.Slug))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(page.HTML), 0o644); err != nil {
			return err
		}
		loc, err := sitemap.PageURL(b.cfg.Site.URL, page.Slug)
		if err != nil {
			return err
		}
		entries = append(entries, sitemap.Entry{Loc: loc, LastMod: page.LastModified})
	}

	index, err := json.MarshalIndent(pages, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "pages.json"), append(index, '\n'), 0o644); err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := sitemap.Write(buf, entries); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "sitemap.xml"), buf.Bytes(), 0o644)
}

func (b *builder) summarize(stats *site.Stats) {
	fmt.Fprintln(b.out, titleStyle.Render("lawe build"))
	line := fmt.Sprintf("%d/%d pages built in %v", stats.SuccessfulPages, stats.TotalPages, stats.TotalTime.Round(time.Millisecond))
	fmt.Fprintln(b.out, successStyle.Render(line))
	if stats.CacheHits > 0 {
		fmt.Fprintln(b.out, dimStyle.Render(fmt.Sprintf("%d from cache", stats.CacheHits)))
	}
	for _, e := range stats.Errors {
		fmt.Fprintln(b.out, errorStyle.Render(fmt.Sprintf("✗ %s (%s): %v", strings.Join(e.Slug, "/"), e.Stage, e.Err)))
	}
}

// debounce is how long the watcher waits for further changes before rebuilding.
const debounce = 200 * time.Millisecond

// watch rebuilds whenever a file in the content directory changes
// until ctx is done.
func (b *builder) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	if err := watchTree(w, b.contentDir); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	b.log.Info().Str("dir", b.contentDir).Msg("watching for changes")

	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := watchTree(w, ev.Name); err != nil {
						b.log.Warn().Err(err).Str("dir", ev.Name).Msg("cannot watch directory")
					}
				}
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			b.log.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("content changed")
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			b.log.Warn().Err(err).Msg("watch error")
		case <-timer.C:
			if _, err := b.build(ctx); err != nil {
				b.log.Error().Err(err).Msg("rebuild failed")
			}
		}
	}
}

// watchTree adds dir and its non-hidden subdirectories to w.
func watchTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
