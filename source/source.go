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

// Package source reads wiki pages from a content directory.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// PageExt is the file extension of wiki page sources.
const PageExt = ".txt"

// DefaultMaxFileSize is the size limit used when [Dir.MaxFileSize] is zero.
const DefaultMaxFileSize = 10 << 20

var (
	// ErrOutsideRoot is returned for page paths that escape the content directory.
	ErrOutsideRoot = errors.New("path outside content directory")
	// ErrTooLarge is returned for page files over the size limit.
	ErrTooLarge = errors.New("file exceeds maximum size")
)

// A RawPage is an unprocessed wiki page.
type RawPage struct {
	Slug     []string `json:"slug"`
	FilePath string   `json:"filePath"`
	// Content is the file content with surrounding whitespace trimmed.
	Content      string    `json:"-"`
	LastModified time.Time `json:"lastModified"`
	Size         int64     `json:"size"`
}

// SlugPath returns the slug components joined with '/'.
func (p *RawPage) SlugPath() string {
	return strings.Join(p.Slug, "/")
}

// A Dir is a content directory of *.txt page sources.
// Hidden directories, node_modules
// and paths matched by a .gitignore at the root are skipped.
type Dir struct {
	Root string
	// MaxFileSize limits the size of a page file in bytes.
	// Zero means [DefaultMaxFileSize].
	MaxFileSize int64
	// Workers limits concurrent file reads. Zero means GOMAXPROCS.
	Workers int
	// NoGit disables last-modified lookups from git history;
	// file modification times are used instead.
	NoGit  bool
	Logger *zerolog.Logger

	gitOnce sync.Once
	git     *gitDates
}

func (d *Dir) logger() *zerolog.Logger {
	if d.Logger == nil {
		l := zerolog.Nop()
		return &l
	}
	return d.Logger
}

func (d *Dir) maxFileSize() int64 {
	if d.MaxFileSize <= 0 {
		return DefaultMaxFileSize
	}
	return d.MaxFileSize
}

func (d *Dir) gitDates() *gitDates {
	d.gitOnce.Do(func() {
		if d.NoGit {
			return
		}
		g, err := openGitDates(d.Root)
		if err != nil {
			d.logger().Warn().Err(err).Msg("git repository not found, using file modification times")
			return
		}
		d.git = g
	})
	return d.git
}

// Pages reads every page under the root.
// Files that cannot be read or are too large are logged and skipped.
// Pages are returned in slug order.
func (d *Dir) Pages(ctx context.Context) ([]*RawPage, error) {
	info, err := os.Stat(d.Root)
	if err != nil {
		return nil, fmt.Errorf("read pages: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("read pages: %s is not a directory", d.Root)
	}

	ignore := d.loadIgnore()
	var files []string
	err = filepath.WalkDir(d.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == d.Root {
			return nil
		}
		rel, err := filepath.Rel(d.Root, path)
		if err != nil {
			return err
		}
		name := entry.Name()
		if entry.IsDir() {
			if strings.HasPrefix(name, ".") || name == "node_modules" ||
				ignore.Match(strings.Split(rel, string(filepath.Separator)), true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() || filepath.Ext(name) != PageExt {
			d.logger().Debug().Str("path", rel).Msg("skipping non-page entry")
			return nil
		}
		if ignore.Match(strings.Split(rel, string(filepath.Separator)), false) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read pages: %w", err)
	}

	pages := make([]*RawPage, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers())
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rel, _ := filepath.Rel(d.Root, path)
			p, err := d.readPage(path, strings.Split(strings.TrimSuffix(rel, PageExt), string(filepath.Separator)))
			if err != nil {
				d.logger().Error().Err(err).Str("path", rel).Msg("skipping page")
				return nil
			}
			pages[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("read pages: %w", err)
	}

	pages = slices.DeleteFunc(pages, func(p *RawPage) bool { return p == nil })
	slices.SortFunc(pages, func(a, b *RawPage) int {
		return strings.Compare(a.SlugPath(), b.SlugPath())
	})
	d.logger().Info().Int("pages", len(pages)).Msg("read wiki pages")
	return pages, nil
}

func (d *Dir) workers() int {
	if d.Workers > 0 {
		return d.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Page reads a single page by its path components, without extension.
// Missing pages return an error satisfying errors.Is(err, fs.ErrNotExist).
func (d *Dir) Page(ctx context.Context, components []string) (*RawPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(append([]string{d.Root}, components...)...) + PageExt
	rel, err := filepath.Rel(d.Root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return nil, fmt.Errorf("read page %s: %w", strings.Join(components, "/"), ErrOutsideRoot)
	}
	return d.readPage(path, components)
}

func (d *Dir) readPage(path string, components []string) (*RawPage, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	if info.Size() > d.maxFileSize() {
		return nil, fmt.Errorf("read page %s (%d bytes): %w", path, info.Size(), ErrTooLarge)
	}
	if info.Size() == 0 {
		d.logger().Warn().Str("path", path).Msg("empty page file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return &RawPage{
		Slug:         Slug(components),
		FilePath:     path,
		Content:      strings.TrimSpace(string(data)),
		LastModified: d.lastModified(path, info),
		Size:         info.Size(),
	}, nil
}

func (d *Dir) lastModified(path string, info fs.FileInfo) time.Time {
	g := d.gitDates()
	if g == nil {
		return info.ModTime()
	}
	t, err := g.lastCommit(path)
	if err != nil {
		d.logger().Debug().Err(err).Str("path", path).Msg("no git history, using file modification time")
		return info.ModTime()
	}
	return t
}

// loadIgnore reads .gitignore patterns at the root.
func (d *Dir) loadIgnore() gitignore.Matcher {
	var patterns []gitignore.Pattern
	data, err := os.ReadFile(filepath.Join(d.Root, ".gitignore"))
	if err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line != "" && !strings.HasPrefix(line, "#") {
				patterns = append(patterns, gitignore.ParsePattern(line, nil))
			}
		}
	}
	return gitignore.NewMatcher(patterns)
}
