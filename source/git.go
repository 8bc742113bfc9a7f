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
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
)

// gitDates looks up the last commit touching a file.
type gitDates struct {
	mu   sync.Mutex
	repo *git.Repository
	root string
}

// openGitDates opens the repository containing dir.
func openGitDates(dir string) (*gitDates, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	root, err := filepath.EvalSymlinks(wt.Filesystem.Root())
	if err != nil {
		return nil, err
	}
	return &gitDates{repo: repo, root: root}, nil
}

// lastCommit returns the committer time of the newest commit
// that changed path.
func (g *gitDates) lastCommit(path string) (time.Time, error) {
	path, err := filepath.EvalSymlinks(path)
	if err != nil {
		return time.Time{}, err
	}
	rel, err := filepath.Rel(g.root, path)
	if err != nil {
		return time.Time{}, err
	}
	rel = filepath.ToSlash(rel)

	g.mu.Lock()
	defer g.mu.Unlock()
	iter, err := g.repo.Log(&git.LogOptions{FileName: &rel})
	if err != nil {
		return time.Time{}, fmt.Errorf("git log %s: %w", rel, err)
	}
	defer iter.Close()
	c, err := iter.Next()
	if err != nil {
		return time.Time{}, fmt.Errorf("git log %s: %w", rel, err)
	}
	return c.Committer.When, nil
}
