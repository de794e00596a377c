package chunk

import (
	"strings"
	"testing"

	"github.com/arborlabs/arbor/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkInvariants verifies the structural properties every chunking result
// must satisfy: contiguous indexes, content matching the declared span, and
// overlapping spans that together cover the normalized text exactly.
func checkInvariants(t *testing.T, content string, chunks []core.Chunk) {
	t.Helper()
	norm := []rune(Normalize(content))
	if len(norm) == 0 {
		assert.Empty(t, chunks)
		return
	}
	require.NotEmpty(t, chunks)

	assert.Equal(t, 0, chunks[0].CharStart, "first chunk must start at 0")
	assert.Equal(t, len(norm), chunks[len(chunks)-1].CharEnd, "last chunk must end at text end")

	for i, c := range chunks {
		assert.Equal(t, i, c.Index, "indexes must be contiguous from 0")
		require.True(t, c.CharStart >= 0 && c.CharEnd <= len(norm) && c.CharStart < c.CharEnd,
			"chunk %d has bad span [%d,%d)", i, c.CharStart, c.CharEnd)
		assert.Equal(t, string(norm[c.CharStart:c.CharEnd]), c.Content,
			"chunk %d content must equal its normalized span", i)
		if i > 0 {
			assert.LessOrEqual(t, c.CharStart, chunks[i-1].CharEnd,
				"chunk %d must not leave a gap after chunk %d", i, i-1)
			assert.Greater(t, c.CharEnd, chunks[i-1].CharEnd,
				"chunk %d must advance past chunk %d", i, i-1)
		}
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	assert.Empty(t, Split(1, "", DefaultConfig()))
	assert.Empty(t, Split(1, "   \n\t  \n", DefaultConfig()))
}

func TestSplit_SingleChunk(t *testing.T) {
	content := "A short document.\n\nWith two paragraphs."
	chunks := Split(7, content, DefaultConfig())

	require.Len(t, chunks, 1)
	assert.Equal(t, core.ID(7), chunks[0].DocumentId)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, Normalize(content), chunks[0].Content)
	checkInvariants(t, content, chunks)
}

func TestSplit_TwoParagraphs(t *testing.T) {
	// 1,200 + 1,800 characters under default config: expect two chunks,
	// the second seeded with the trailing 200 characters of the first.
	content := strings.Repeat("a", 1200) + "\n\n" + strings.Repeat("b", 1800)
	chunks := Split(1, content, DefaultConfig())

	require.Len(t, chunks, 2)
	assert.Equal(t, 0, chunks[0].CharStart)
	assert.Equal(t, 1200, chunks[0].CharEnd)
	assert.Equal(t, 1000, chunks[1].CharStart)
	assert.True(t, strings.HasPrefix(chunks[1].Content, strings.Repeat("a", 200)),
		"second chunk must begin with the overlap from the first")
	checkInvariants(t, content, chunks)
}

func TestSplit_SizeBounds(t *testing.T) {
	cfg := DefaultConfig()
	paras := []string{
		strings.Repeat("a", 800),
		strings.Repeat("b", 600),
		strings.Repeat("c", 900),
		strings.Repeat("d", 400),
		strings.Repeat("e", 700),
	}
	content := strings.Join(paras, "\n\n")
	chunks := Split(1, content, cfg)

	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.GreaterOrEqual(t, c.CharEnd-c.CharStart, cfg.MinSize,
			"chunk %d shorter than MinSize", i)
	}
	checkInvariants(t, content, chunks)
}

func TestSplit_TailMergesIntoPreviousChunk(t *testing.T) {
	cfg := Config{TargetSize: 100, Overlap: 10, MinSize: 50, MaxSize: 120}
	content := strings.Repeat("a", 100) + "\n\n" + strings.Repeat("b", 100) + "\n\n" + "tail."
	chunks := Split(1, content, cfg)

	require.Len(t, chunks, 2)
	assert.True(t, strings.HasSuffix(chunks[1].Content, "tail."),
		"undersized tail must fold into the previous chunk")
	checkInvariants(t, content, chunks)
}

func TestSplit_OversizedParagraphSentences(t *testing.T) {
	// One paragraph of thirty 100-character sentences forces a re-split on
	// sentence boundaries.
	sentence := strings.Repeat("x", 98) + ". "
	content := strings.TrimSpace(strings.Repeat(sentence, 30))
	cfg := DefaultConfig()
	chunks := Split(1, content, cfg)

	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.LessOrEqual(t, c.CharEnd-c.CharStart, cfg.MaxSize,
			"chunk %d exceeds MaxSize", i)
	}
	checkInvariants(t, content, chunks)
}

func TestSplit_HardSplitWithoutSentenceBoundaries(t *testing.T) {
	content := strings.Repeat("z", 5000)
	cfg := DefaultConfig()
	chunks := Split(1, content, cfg)

	require.Len(t, chunks, 3)
	assert.Equal(t, 0, chunks[0].CharStart)
	assert.Equal(t, 2000, chunks[0].CharEnd)
	assert.Equal(t, 1800, chunks[1].CharStart)
	assert.Equal(t, 3600, chunks[2].CharStart)
	checkInvariants(t, content, chunks)
}

func TestSplit_NormalizesLineEndings(t *testing.T) {
	content := "first line\r\nsecond line\r\rthird line"
	chunks := Split(1, content, DefaultConfig())

	require.Len(t, chunks, 1)
	assert.NotContains(t, chunks[0].Content, "\r")
	checkInvariants(t, content, chunks)
}

func TestSplit_Deterministic(t *testing.T) {
	content := strings.Repeat("alpha beta gamma. ", 300)
	a := Split(1, content, DefaultConfig())
	b := Split(1, content, DefaultConfig())
	assert.Equal(t, a, b)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a\nb", Normalize("  a\r\nb \n"))
	assert.Equal(t, "", Normalize(" \t\r\n "))
}
