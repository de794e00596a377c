// Copyright 2026 Arbor Labs
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


// Package chunk splits document text into overlapping, size-bounded passages
// for embedding. Splitting is a pure function of its input: the same text and
// config always produce the same chunks.
package chunk

import (
	"strings"
	"unicode"

	"github.com/arborlabs/arbor/core"
)

// Config controls chunk sizing. All sizes are in runes of the normalized
// text. Zero values fall back to the defaults.
type Config struct {
	// TargetSize is the preferred chunk length. A chunk closes once adding
	// the next paragraph would push it past this.
	TargetSize int
	// Overlap is how many trailing runes of a closed chunk seed the next
	// one, preserving context across the boundary.
	Overlap int
	// MinSize is the smallest chunk worth emitting. A too-small tail is
	// merged into the previous chunk instead.
	MinSize int
	// MaxSize is the hard ceiling for a single paragraph or sentence before
	// it gets re-split.
	MaxSize int
}

// DefaultConfig returns the standard chunking parameters.
func DefaultConfig() Config {
	return Config{
		TargetSize: 1000,
		Overlap:    200,
		MinSize:    100,
		MaxSize:    2000,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.TargetSize <= 0 {
		c.TargetSize = def.TargetSize
	}
	if c.Overlap <= 0 {
		c.Overlap = def.Overlap
	}
	if c.MinSize <= 0 {
		c.MinSize = def.MinSize
	}
	if c.MaxSize <= 0 {
		c.MaxSize = def.MaxSize
	}
	return c
}

// Normalize canonicalizes line endings and trims surrounding whitespace.
// Chunk offsets always refer to positions in the normalized text.
func Normalize(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.TrimSpace(content)
}

// span is a half-open rune range [start, end) in the normalized text.
type span struct {
	start int
	end   int
}

// Split chunks content for documentId. Whitespace-only input yields no
// chunks; input no longer than MaxSize yields a single chunk spanning the
// whole document. Otherwise paragraphs accumulate greedily up to TargetSize
// with Overlap runes carried across boundaries, and any single paragraph
// over MaxSize is re-split on sentence boundaries.
//
// Every chunk's Content equals the normalized text between its CharStart and
// CharEnd, and consecutive chunks overlap so the chunks together cover the
// normalized text exactly.
func Split(documentId core.ID, content string, cfg Config) []core.Chunk {
	cfg = cfg.withDefaults()

	norm := []rune(Normalize(content))
	if len(norm) == 0 {
		return nil
	}
	if len(norm) <= cfg.MaxSize {
		return buildChunks(documentId, norm, []span{{0, len(norm)}})
	}

	var spans []span
	s, e := -1, -1 // open buffer [s, e), s < 0 when empty
	for _, p := range paragraphs(norm) {
		if s >= 0 && p.end-s > cfg.TargetSize && e-s >= cfg.MinSize {
			spans = append(spans, span{s, e})
			s = seedStart(spans, e, cfg.Overlap)
		}
		if s < 0 {
			s = p.start
		}
		e = p.end
		if p.end-p.start > cfg.MaxSize {
			spans, s, e = splitSentences(norm, spans, s, e, cfg)
		}
	}

	if s >= 0 {
		if e-s >= cfg.MinSize || len(spans) == 0 {
			spans = append(spans, span{s, e})
		} else {
			// Too small to stand alone, fold into the previous chunk.
			spans[len(spans)-1].end = e
		}
	}

	return buildChunks(documentId, norm, spans)
}

// splitSentences re-splits the open buffer [s, e), which ends in a paragraph
// longer than MaxSize, on sentence boundaries using the same greedy logic.
// The final sub-span stays open and is returned as the new buffer.
func splitSentences(norm []rune, spans []span, s, e int, cfg Config) ([]span, int, int) {
	bs, be := -1, -1
	for _, q := range sentences(norm, s, e) {
		if bs >= 0 && q.end-bs > cfg.TargetSize && be-bs >= cfg.MinSize {
			spans = append(spans, span{bs, be})
			bs = seedStart(spans, be, cfg.Overlap)
		}
		if bs < 0 {
			bs = q.start
		}
		be = q.end
		// A single sentence over MaxSize gets hard-split.
		for be-bs > cfg.MaxSize {
			cut := bs + cfg.MaxSize
			spans = append(spans, span{bs, cut})
			next := seedStart(spans, cut, cfg.Overlap)
			if next <= bs {
				// Overlap at least MaxSize would stall here, step without it.
				next = cut
			}
			bs = next
		}
	}
	return spans, bs, be
}

// seedStart positions the next buffer overlap runes before end, never
// earlier than the start of the chunk just closed.
func seedStart(spans []span, end, overlap int) int {
	s := end - overlap
	if prev := spans[len(spans)-1].start; s < prev {
		s = prev
	}
	return s
}

// paragraphs returns the spans of blank-line-separated paragraphs. A line
// containing only whitespace counts as blank.
func paragraphs(norm []rune) []span {
	var out []span
	n := len(norm)
	lineStart := 0
	ps, pe := -1, -1
	for i := 0; i <= n; i++ {
		if i < n && norm[i] != '\n' {
			continue
		}
		blank := true
		for j := lineStart; j < i; j++ {
			if !unicode.IsSpace(norm[j]) {
				blank = false
				break
			}
		}
		if blank {
			if ps >= 0 {
				out = append(out, span{ps, pe})
				ps = -1
			}
		} else {
			if ps < 0 {
				ps = lineStart
			}
			pe = i
		}
		lineStart = i + 1
	}
	if ps >= 0 {
		out = append(out, span{ps, pe})
	}
	return out
}

// sentences tiles [start, end) into sentence spans. A sentence ends after
// '.', '!' or '?' followed by whitespace or the end of the range. Text with
// no terminator is a single sentence.
func sentences(norm []rune, start, end int) []span {
	var out []span
	cur := start
	for i := start; i < end; i++ {
		switch norm[i] {
		case '.', '!', '?':
			if i+1 == end || unicode.IsSpace(norm[i+1]) {
				out = append(out, span{cur, i + 1})
				cur = i + 1
			}
		}
	}
	if cur < end {
		out = append(out, span{cur, end})
	}
	return out
}

func buildChunks(documentId core.ID, norm []rune, spans []span) []core.Chunk {
	chunks := make([]core.Chunk, 0, len(spans))
	for i, sp := range spans {
		chunks = append(chunks, core.Chunk{
			DocumentId: documentId,
			Index:      i,
			Content:    string(norm[sp.start:sp.end]),
			CharStart:  sp.start,
			CharEnd:    sp.end,
		})
	}
	return chunks
}
