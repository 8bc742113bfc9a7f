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
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rs/zerolog"
)

// ErrNotRepository is returned when a checkout directory exists
// but is not a git repository.
var ErrNotRepository = errors.New("not a git repository")

// DefaultFetchTimeout bounds a clone or pull when [Remote.Timeout] is zero.
const DefaultFetchTimeout = 2 * time.Minute

// A Remote is a git repository holding wiki content.
type Remote struct {
	URL    string
	Branch string
	// Dir is the local checkout.
	Dir string
	// ContentPath is the content directory inside the repository.
	ContentPath string
	Timeout     time.Duration
	Logger      *zerolog.Logger
}

// Fetch clones the repository into Dir,
// or discards local changes and pulls if Dir is already a checkout.
// It returns the path of the content directory.
func (r *Remote) Fetch(ctx context.Context) (string, error) {
	if r.URL == "" || r.Branch == "" {
		return "", errors.New("fetch content: repository URL and branch are required")
	}
	log := r.Logger
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dir := filepath.Clean(r.Dir)
	ref := plumbing.NewBranchReferenceName(r.Branch)
	if _, err := os.Stat(dir); err == nil {
		log.Info().Str("dir", dir).Msg("updating wiki content repository")
		if err := r.pull(ctx, dir, ref); err != nil {
			return "", fmt.Errorf("fetch content: %w", err)
		}
	} else {
		log.Info().Str("url", r.URL).Str("branch", r.Branch).Msg("cloning wiki content repository")
		_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
			URL:           r.URL,
			ReferenceName: ref,
			SingleBranch:  true,
			Depth:         1,
		})
		if err != nil {
			return "", fmt.Errorf("fetch content: clone %s: %w", r.URL, err)
		}
	}

	content := filepath.Join(dir, filepath.Clean("/" + r.ContentPath))
	info, err := os.Stat(content)
	if err != nil {
		return "", fmt.Errorf("fetch content: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("fetch content: %s is not a directory", content)
	}
	log.Info().Str("dir", content).Msg("wiki content fetched")
	return content, nil
}

func (r *Remote) pull(ctx context.Context, dir string, ref plumbing.ReferenceName) error {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return fmt.Errorf("%s: %w", dir, ErrNotRepository)
	}
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	if err := wt.Reset(&git.ResetOptions{Mode: git.HardReset}); err != nil {
		return fmt.Errorf("reset %s: %w", dir, err)
	}
	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName:    git.DefaultRemoteName,
		ReferenceName: ref,
		SingleBranch:  true,
		Depth:         1,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("pull %s: %w", dir, err)
	}
	return nil
}
