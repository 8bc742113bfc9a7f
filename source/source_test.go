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

package source

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{in: []string{"Lore", "Abydos High"}, want: []string{"lore", "abydos-high"}},
		{in: []string{"  spaced  out  "}, want: []string{"spaced-out"}},
		{in: []string{"Café Déjà"}, want: []string{"cafe-deja"}},
		{in: []string{"a--b", "-c-"}, want: []string{"a-b", "c"}},
		{in: []string{"what?!", "snake_case"}, want: []string{"what", "snake_case"}},
		{in: []string{"???", "page"}, want: []string{"page"}},
		{in: []string{}, want: []string{}},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, Slug(test.in), "Slug(%q)", test.in)
	}
}

func writeFiles(tb testing.TB, root string, files map[string]string) {
	tb.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(tb, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(tb, os.WriteFile(path, []byte(content), 0o644))
	}
}

func slugPaths(pages []*RawPage) []string {
	paths := make([]string, len(pages))
	for i, p := range pages {
		paths[i] = p.SlugPath()
	}
	return paths
}

func TestDirPages(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"index.txt":              "\n  == Home ==\n\n",
		"Lore/Abydos High.txt":   "Sand.",
		"Lore/empty.txt":         "",
		"Lore/notes.md":          "not a page",
		".hidden/secret.txt":     "hidden",
		"node_modules/pkg/a.txt": "vendored",
		"drafts/wip.txt":         "ignored",
		"scratch.txt":            "ignored too",
		"big.txt":                strings.Repeat("x", 64),
		".gitignore":             "# comment\n\ndrafts/\nscratch.txt\n",
	})
	d := &Dir{Root: root, MaxFileSize: 32, NoGit: true, Workers: 2}
	pages, err := d.Pages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"index", "lore/abydos-high", "lore/empty"}, slugPaths(pages))

	home := pages[0]
	assert.Equal(t, "== Home ==", home.Content)
	assert.Equal(t, int64(len("\n  == Home ==\n\n")), home.Size)
	assert.Equal(t, filepath.Join(root, "index.txt"), home.FilePath)
	info, err := os.Stat(home.FilePath)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(home.LastModified))
	assert.Empty(t, pages[2].Content)
}

func TestDirPagesMissingRoot(t *testing.T) {
	d := &Dir{Root: filepath.Join(t.TempDir(), "nope"), NoGit: true}
	_, err := d.Pages(context.Background())
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestDirPagesCanceled(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.txt": "a", "b.txt": "b"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Dir{Root: root, NoGit: true}).Pages(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirPage(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"lore/Abydos.txt": " Abydos \n",
		"huge.txt":        strings.Repeat("y", 100),
	})
	d := &Dir{Root: root, MaxFileSize: 50, NoGit: true}
	ctx := context.Background()

	p, err := d.Page(ctx, []string{"lore", "Abydos"})
	require.NoError(t, err)
	assert.Equal(t, []string{"lore", "abydos"}, p.Slug)
	assert.Equal(t, "Abydos", p.Content)

	_, err = d.Page(ctx, []string{"lore", "missing"})
	assert.True(t, errors.Is(err, fs.ErrNotExist), "err = %v", err)

	_, err = d.Page(ctx, []string{"..", "etc", "passwd"})
	assert.ErrorIs(t, err, ErrOutsideRoot)

	_, err = d.Page(ctx, []string{"huge"})
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestDirGitLastModified(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	writeFiles(t, root, map[string]string{
		"committed.txt":   "old",
		"uncommitted.txt": "new",
	})
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("committed.txt")
	require.NoError(t, err)
	when := time.Date(2024, time.March, 14, 15, 9, 26, 0, time.UTC)
	_, err = wt.Commit("add page", &git.CommitOptions{
		Author: &object.Signature{Name: "Sensei", Email: "sensei@example.com", When: when},
	})
	require.NoError(t, err)

	d := &Dir{Root: root}
	pages, err := d.Pages(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"committed", "uncommitted"}, slugPaths(pages))
	assert.True(t, when.Equal(pages[0].LastModified), "LastModified = %v; want %v", pages[0].LastModified, when)

	info, err := os.Stat(pages[1].FilePath)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(pages[1].LastModified))
}
