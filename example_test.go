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

package lawe_test

import (
	"fmt"
	"os"

	"github.com/lorearchive/lawe"
)

func Example() {
	html, err := lawe.Convert("Hello, **World**!")
	if err != nil {
		panic(err)
	}
	fmt.Println(html)
	// Output:
	// <p>Hello, <strong>World</strong>!</p>
}

func ExampleParser() {
	tokens, err := lawe.Tokenise("== Intro ==\n{{/missing-width.png}}\nSee [[lore/abydos|Abydos]].")
	if err != nil {
		panic(err)
	}

	// Malformed blocks are dropped and reported.
	parser := new(lawe.Parser)
	doc := parser.Parse(tokens)
	for _, err := range parser.Errors() {
		fmt.Println("error:", err)
	}

	r := &lawe.HTMLRenderer{}
	if err := r.Render(os.Stdout, doc); err != nil {
		panic(err)
	}
	fmt.Println()
	// Output:
	// error: parse IMAGE_CLOSE at 2:21: image "/missing-width.png" has no width information
	// <div id="lawe-heading-5-div" class="lawe-heading-div"><h5 id="intro" class="lawe-heading-5"><span class="lawe-heading">Intro</span></h5></div><p>See <a href="/wiki/lore/abydos" title="Abydos" id="lawe-link" class="internal">Abydos</a>.</p>
}

func ExampleValidateLinkTarget() {
	for _, target := range []string{"lore/abydos#history", "wp>Kivotos", "#notes", "bad target!"} {
		t := lawe.ValidateLinkTarget(target)
		fmt.Printf("%q valid=%t type=%s\n", target, t.Valid, t.Type)
	}
	// Output:
	// "lore/abydos#history" valid=true type=internal
	// "wp>Kivotos" valid=true type=external
	// "#notes" valid=true type=anchor
	// "bad target!" valid=false type=internal
}
