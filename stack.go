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

package lawe

import "slices"

// A TagStack records the kinds of paired constructs
// that have been opened but not yet closed during lexing.
type TagStack []TokenKind

// Push records an opened construct.
func (s *TagStack) Push(kind TokenKind) {
	*s = append(*s, kind)
}

// Contains reports whether an unclosed construct of the given kind exists.
func (s TagStack) Contains(kind TokenKind) bool {
	return slices.Contains(s, kind)
}

// LastIndex returns the index of the most recently opened entry of kind
// or -1 if there is none.
func (s TagStack) LastIndex(kind TokenKind) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == kind {
			return i
		}
	}
	return -1
}

// LastUnclosed scans backward for an open entry that has not been matched
// by a later close entry and returns its index, or -1.
// Each close encountered during the scan cancels one earlier open.
func (s TagStack) LastUnclosed(open, close TokenKind) int {
	closeCount := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case close:
			closeCount++
		case open:
			if closeCount == 0 {
				return i
			}
			closeCount--
		}
	}
	return -1
}

// RemoveAt deletes the entry at index i.
// Entries opened after it keep their relative order.
func (s *TagStack) RemoveAt(i int) {
	*s = slices.Delete(*s, i, i+1)
}

// Close removes the last unclosed entry of the open kind
// and reports whether one was found.
func (s *TagStack) Close(open TokenKind) bool {
	i := s.LastUnclosed(open, open.CloseKind())
	if i < 0 {
		return false
	}
	s.RemoveAt(i)
	return true
}
