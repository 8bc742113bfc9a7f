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

// Package golden provides markup-to-HTML examples
// shared by the renderer's conformance tests.
package golden

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Example is a single markup document and its expected HTML.
type Example struct {
	Name    string `yaml:"name"`
	Section string `yaml:"section"`
	Markup  string `yaml:"markup"`
	HTML    string `yaml:"html"`
	// Errors is the number of blocks the parser is expected to drop.
	Errors int `yaml:"errors"`
}

//go:embed examples.yaml
var exampleData []byte

// Load returns the built-in examples in file order.
func Load() ([]Example, error) {
	var examples []Example
	if err := yaml.Unmarshal(exampleData, &examples); err != nil {
		return nil, fmt.Errorf("load golden examples: %w", err)
	}
	return examples, nil
}
