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
	"fmt"
	"strings"
)

// DefaultMaxChunkChars is the chunk size used when none is configured.
const DefaultMaxChunkChars = 512

// boundaries are tried in order: coarser separators first, so a chunk keeps
// as much surrounding structure as its budget allows.
var boundaries = []string{"\n\n", "\n", ". ", "! ", "? ", " "}

// Chunker splits text into pieces of at most maxChars characters each.
//
// Splitting is recursive: the text is divided at the coarsest boundary that
// appears in it, adjacent pieces are greedily merged back up to the budget,
// and any piece still over budget is re-split at the next finer boundary.
// When no boundary helps (a single oversized word) the piece is cut at exact
// character positions. Concatenating the chunks reproduces the input.
type Chunker struct {
	maxChars int
}

// NewChunker returns a Chunker with the given character budget.
func NewChunker(maxChars int) (*Chunker, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("chunker: max chars must be positive, got %d", maxChars)
	}
	return &Chunker{maxChars: maxChars}, nil
}

// MaxChars reports the configured chunk budget.
func (c *Chunker) MaxChars() int {
	return c.maxChars
}

// Split divides text into chunks of at most MaxChars characters. Chunks are
// returned in document order and concatenate back to the input unchanged.
// Empty input yields no chunks.
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}
	return c.split(text, 0)
}

func (c *Chunker) split(text string, level int) []string {
	if len([]rune(text)) <= c.maxChars {
		return []string{text}
	}
	if level >= len(boundaries) {
		return splitRunes(text, c.maxChars)
	}

	sep := boundaries[level]
	parts := strings.SplitAfter(text, sep)
	if len(parts) == 1 {
		// Boundary absent, try the next finer one.
		return c.split(text, level+1)
	}

	merged := c.merge(parts)

	var chunks []string
	for _, piece := range merged {
		if len([]rune(piece)) <= c.maxChars {
			chunks = append(chunks, piece)
			continue
		}
		chunks = append(chunks, c.split(piece, level+1)...)
	}
	return chunks
}

// merge greedily joins adjacent parts while they fit the budget. SplitAfter
// keeps separators attached, so joining is plain concatenation and no bytes
// are lost.
func (c *Chunker) merge(parts []string) []string {
	var out []string
	var cur strings.Builder
	curLen := 0

	for _, p := range parts {
		if p == "" {
			continue
		}
		n := len([]rune(p))
		if curLen > 0 && curLen+n > c.maxChars {
			out = append(out, cur.String())
			cur.Reset()
			curLen = 0
		}
		cur.WriteString(p)
		curLen += n
	}
	if curLen > 0 {
		out = append(out, cur.String())
	}
	return out
}

// splitRunes cuts text at exact character positions. Last resort for content
// with no usable boundaries.
func splitRunes(text string, maxChars int) []string {
	runes := []rune(text)
	var out []string
	for start := 0; start < len(runes); start += maxChars {
		end := start + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}
