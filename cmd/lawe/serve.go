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
	"context"
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/lorearchive/lawe/canon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func (a *app) serveCommand() *cobra.Command {
	var (
		addr  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build the site and serve it over HTTP",
		Long: `Serve builds the site like the build command and serves the output directory.
Wiki pages are served without their .html extension,
paths with upper-case letters redirect to their lower-case form
and build metrics are exposed at /metrics.`,
		Args: cobra.NoArgs,
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
				go func() {
					if err := b.watch(ctx); err != nil {
						a.log.Error().Err(err).Msg("watch stopped")
					}
				}()
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           newSiteHandler(a.cfg.Output.Dir, b.metrics.Registry),
				ReadHeaderTimeout: 10 * time.Second,
			}
			go shutdownOnDone(ctx, srv, shutdownTimeout, &a.log)
			a.log.Info().Str("addr", addr).Msg("serving site")
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	addBuildFlags(cmd)
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild when content changes")
	return cmd
}

const shutdownTimeout = 5 * time.Second

// shutdownOnDone gracefully stops srv once ctx is done.
func shutdownOnDone(ctx context.Context, srv *http.Server, timeout time.Duration, log *zerolog.Logger) {
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}

func newSiteHandler(root string, reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/", pageHandler(root))
	return canon.Handler(mux)
}

// pageHandler serves files under root,
// resolving extensionless paths to .html files.
func pageHandler(root string) http.Handler {
	files := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := path.Clean("/" + r.URL.Path)
		if p != "/" && path.Ext(p) == "" {
			name := filepath.Join(root, filepath.FromSlash(p)+".html")
			if info, err := os.Stat(name); err == nil && info.Mode().IsRegular() {
				http.ServeFile(w, r, name)
				return
			}
		}
		files.ServeHTTP(w, r)
	})
}
