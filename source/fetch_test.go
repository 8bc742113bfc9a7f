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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteFetchRequiresURL(t *testing.T) {
	_, err := (&Remote{Dir: t.TempDir()}).Fetch(context.Background())
	assert.ErrorContains(t, err, "repository URL and branch are required")
}

func TestRemoteFetchNotRepository(t *testing.T) {
	r := &Remote{URL: "https://example.com/wiki.git", Branch: "main", Dir: t.TempDir()}
	_, err := r.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrNotRepository)
}

func TestRemoteFetchNoOrigin(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.txt"), []byte("hi"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("page.txt")
	require.NoError(t, err)
	_, err = wt.Commit("init", &git.CommitOptions{
		Author: &object.Signature{Name: "Sensei", Email: "sensei@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	r := &Remote{URL: "https://example.com/wiki.git", Branch: "master", Dir: dir}
	_, err = r.Fetch(context.Background())
	assert.ErrorIs(t, err, git.ErrRemoteNotFound)
}
