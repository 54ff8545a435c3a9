// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package text

import (
	"regexp"
	"strings"
)

var (
	// Three or more dots (optionally spaced) followed by an optional page
	// number. Typical table-of-contents leader lines in extracted PDFs.
	dotLeaderRe = regexp.MustCompile(`(?:\.\s?){3,}\s*\d*`)

	// A word split across a line break with a trailing hyphen.
	hyphenBreakRe = regexp.MustCompile(`(\w+)-\s+(\w+)`)

	// Anything that is not a word character, whitespace, or basic
	// sentence punctuation.
	junkRe = regexp.MustCompile(`[^\w\s.,?!]`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize cleans raw extracted text for embedding. The steps run in a fixed
// order: dot leaders are removed, hyphenated line breaks are rejoined, stray
// symbols are stripped, whitespace is collapsed to single spaces, and the
// result is trimmed and lowercased.
//
// Normalize(Normalize(s)) == Normalize(s) for any input.
func Normalize(raw string) string {
	s := dotLeaderRe.ReplaceAllString(raw, " ")
	s = hyphenBreakRe.ReplaceAllString(s, "${1}${2}")
	s = junkRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}
