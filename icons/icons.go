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

// Package icons provides inline SVG markup for the icons used by rendered pages.
package icons

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"
)

// Options controls how an icon is sized and styled.
type Options struct {
	// Size is the width and height in pixels. Zero means 24.
	Size int
	// ClassName is the value of the class attribute.
	ClassName string
	// Color is the fill color. Empty means "none".
	Color string
}

// DefaultSize is the icon size used when [Options.Size] is zero.
const DefaultSize = 24

// A Bank maps icon names to raw SVG documents.
type Bank map[string]string

// Load reads every *.svg file in fsys into a Bank
// keyed by the file name without its extension.
func Load(fsys fs.FS) (Bank, error) {
	names, err := fs.Glob(fsys, "*.svg")
	if err != nil {
		return nil, fmt.Errorf("load icons: %w", err)
	}
	b := make(Bank, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("load icons: %w", err)
		}
		b[strings.TrimSuffix(name, path.Ext(name))] = strings.TrimSpace(string(data))
	}
	return b, nil
}

// Markup returns the named icon with sizing and styling attributes
// injected into its root element,
// or the empty string if the bank has no such icon.
func (b Bank) Markup(name string, opts Options) string {
	raw, ok := b[name]
	if !ok {
		return ""
	}
	size := opts.Size
	if size == 0 {
		size = DefaultSize
	}
	color := opts.Color
	if color == "" {
		color = "none"
	}
	s := strconv.Itoa(size)
	attrs := `<svg id="lawe-icon-svg" class="` + opts.ClassName +
		`" width="` + s + `" height="` + s + `" fill="` + color + `" `
	return strings.Replace(raw, "<svg ", attrs, 1)
}

//go:embed svg/*.svg
var bankFiles embed.FS

// Default is the bank of built-in icons.
var Default = mustLoadDefault()

func mustLoadDefault() Bank {
	sub, err := fs.Sub(bankFiles, "svg")
	if err != nil {
		panic(err)
	}
	b, err := Load(sub)
	if err != nil {
		panic(err)
	}
	return b
}

// Markup returns the named icon from [Default].
func Markup(name string, opts Options) string {
	return Default.Markup(name, opts)
}
