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

// Package config loads lawe's layered configuration:
// defaults, then an optional YAML file, then LAWE_* environment variables,
// then command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/lorearchive/lawe"
	"github.com/lorearchive/lawe/site"
	"github.com/lorearchive/lawe/source"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the complete application configuration.
type Config struct {
	Site    SiteConfig    `mapstructure:"site"`
	Content ContentConfig `mapstructure:"content"`
	Output  OutputConfig  `mapstructure:"output"`
	Build   BuildConfig   `mapstructure:"build"`
	Images  ImagesConfig  `mapstructure:"images"`
	Log     LogConfig     `mapstructure:"log"`
}

// SiteConfig describes the published wiki.
type SiteConfig struct {
	URL string `mapstructure:"url"`
}

// ContentConfig locates the page sources.
type ContentConfig struct {
	Dir         string `mapstructure:"dir"`
	MaxFileSize int64  `mapstructure:"max_file_size"`
	// RepoURL, if set, is cloned or pulled into CheckoutDir before a build
	// and Path inside it is used as Dir.
	RepoURL      string        `mapstructure:"repo_url"`
	Branch       string        `mapstructure:"branch"`
	CheckoutDir  string        `mapstructure:"checkout_dir"`
	Path         string        `mapstructure:"path"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	NoGit        bool          `mapstructure:"no_git"`
}

// OutputConfig locates build results.
type OutputConfig struct {
	Dir         string `mapstructure:"dir"`
	MetricsFile string `mapstructure:"metrics_file"`
}

// BuildConfig controls page processing.
type BuildConfig struct {
	Workers           int           `mapstructure:"workers"`
	ValidateOutput    bool          `mapstructure:"validate_output"`
	StripEmptyLines   bool          `mapstructure:"strip_empty_lines"`
	GenerateTOC       bool          `mapstructure:"generate_toc"`
	Strict            bool          `mapstructure:"strict"`
	CacheSize         int           `mapstructure:"cache_size"`
	MaxProcessingTime time.Duration `mapstructure:"max_processing_time"`
}

// ImagesConfig holds image URL prefixes.
type ImagesConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	LinkBaseURL string `mapstructure:"link_base_url"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultConfig returns a new configuration with default values.
func DefaultConfig() *Config {
	proc := site.DefaultConfig()
	return &Config{
		Site: SiteConfig{URL: "https://lorearchive.org"},
		Content: ContentConfig{
			Dir:          "content",
			MaxFileSize:  source.DefaultMaxFileSize,
			Branch:       "main",
			CheckoutDir:  ".lawe/content",
			Path:         "wiki",
			FetchTimeout: source.DefaultFetchTimeout,
		},
		Output: OutputConfig{Dir: "dist"},
		Build: BuildConfig{
			ValidateOutput:    proc.ValidateOutput,
			StripEmptyLines:   proc.StripEmptyLines,
			GenerateTOC:       proc.GenerateTOC,
			CacheSize:         proc.CacheSize,
			MaxProcessingTime: proc.MaxProcessingTime,
		},
		Images: ImagesConfig{
			BaseURL:     lawe.DefaultImageBaseURL,
			LinkBaseURL: lawe.DefaultImageLinkBaseURL,
		},
		Log: LogConfig{Level: "info"},
	}
}

// FlagKeys maps command-line flag names to configuration keys.
// Flags are bound only if present in the flag set passed to [Load].
var FlagKeys = map[string]string{
	"site-url":   "site.url",
	"content":    "content.dir",
	"repo":       "content.repo_url",
	"branch":     "content.branch",
	"no-git":     "content.no_git",
	"out":        "output.dir",
	"metrics":    "output.metrics_file",
	"workers":    "build.workers",
	"strict":     "build.strict",
	"cache-size": "build.cache_size",
	"log-level":  "log.level",
	"image-base": "images.base_url",
}

// Load loads configuration from the file at path (if not empty),
// the environment and flags.
// Without a path, lawe.yaml is looked up in the working directory
// and its absence is not an error.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("LAWE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("load config: %w", err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("lawe")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("site.url", defaults.Site.URL)
	v.SetDefault("content.dir", defaults.Content.Dir)
	v.SetDefault("content.max_file_size", defaults.Content.MaxFileSize)
	v.SetDefault("content.repo_url", defaults.Content.RepoURL)
	v.SetDefault("content.branch", defaults.Content.Branch)
	v.SetDefault("content.checkout_dir", defaults.Content.CheckoutDir)
	v.SetDefault("content.path", defaults.Content.Path)
	v.SetDefault("content.fetch_timeout", defaults.Content.FetchTimeout)
	v.SetDefault("content.no_git", defaults.Content.NoGit)
	v.SetDefault("output.dir", defaults.Output.Dir)
	v.SetDefault("output.metrics_file", defaults.Output.MetricsFile)
	v.SetDefault("build.workers", defaults.Build.Workers)
	v.SetDefault("build.validate_output", defaults.Build.ValidateOutput)
	v.SetDefault("build.strip_empty_lines", defaults.Build.StripEmptyLines)
	v.SetDefault("build.generate_toc", defaults.Build.GenerateTOC)
	v.SetDefault("build.strict", defaults.Build.Strict)
	v.SetDefault("build.cache_size", defaults.Build.CacheSize)
	v.SetDefault("build.max_processing_time", defaults.Build.MaxProcessingTime)
	v.SetDefault("images.base_url", defaults.Images.BaseURL)
	v.SetDefault("images.link_base_url", defaults.Images.LinkBaseURL)
	v.SetDefault("log.level", defaults.Log.Level)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Site.URL != "" {
		u, err := url.Parse(c.Site.URL)
		if err != nil || !u.IsAbs() {
			return fmt.Errorf("invalid site url %q: must be an absolute URL", c.Site.URL)
		}
	}
	if c.Content.Dir == "" && c.Content.RepoURL == "" {
		return errors.New("content dir or repo url is required")
	}
	if c.Content.MaxFileSize < 0 {
		return fmt.Errorf("invalid max file size %d", c.Content.MaxFileSize)
	}
	if c.Build.Workers < 0 {
		return fmt.Errorf("invalid worker count %d", c.Build.Workers)
	}
	if c.Build.CacheSize < 0 {
		return fmt.Errorf("invalid cache size %d", c.Build.CacheSize)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return nil
}

// ProcessorConfig returns the page processor settings.
func (c *Config) ProcessorConfig() site.Config {
	return site.Config{
		ValidateOutput:    c.Build.ValidateOutput,
		StripEmptyLines:   c.Build.StripEmptyLines,
		GenerateTOC:       c.Build.GenerateTOC,
		Strict:            c.Build.Strict,
		MaxProcessingTime: c.Build.MaxProcessingTime,
		Workers:           c.Build.Workers,
		CacheSize:         c.Build.CacheSize,
	}
}

// Source returns the content directory reader.
func (c *Config) Source(contentDir string, logger *zerolog.Logger) *source.Dir {
	return &source.Dir{
		Root:        contentDir,
		MaxFileSize: c.Content.MaxFileSize,
		Workers:     c.Build.Workers,
		NoGit:       c.Content.NoGit,
		Logger:      logger,
	}
}

// Remote returns the content repository, or nil if none is configured.
func (c *Config) Remote(logger *zerolog.Logger) *source.Remote {
	if c.Content.RepoURL == "" {
		return nil
	}
	return &source.Remote{
		URL:         c.Content.RepoURL,
		Branch:      c.Content.Branch,
		Dir:         c.Content.CheckoutDir,
		ContentPath: c.Content.Path,
		Timeout:     c.Content.FetchTimeout,
		Logger:      logger,
	}
}

// Renderer returns an HTML renderer using the configured image locations.
func (c *Config) Renderer(logger *zerolog.Logger) *lawe.HTMLRenderer {
	return &lawe.HTMLRenderer{
		ImageBaseURL:     c.Images.BaseURL,
		ImageLinkBaseURL: c.Images.LinkBaseURL,
		Logger:           logger,
	}
}
