package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShortInputIsSingleChunk(t *testing.T) {
	chunks := SplitText("tiny", 100, 20)
	require.Len(t, chunks, 1)
	assert.Equal(t, "tiny", chunks[0])
}

func TestSplitTextOverlapPreservesBoundaries(t *testing.T) {
	text := strings.Repeat("abcdefghij", 10) // 100 chars
	chunks := SplitText(text, 40, 10)

	require.Greater(t, len(chunks), 1)
	for i := 0; i < len(chunks)-1; i++ {
		// The tail of each chunk reappears at the head of the next one.
		tail := chunks[i][len(chunks[i])-10:]
		assert.True(t, strings.HasPrefix(chunks[i+1], tail), "chunk %d", i)
	}
}

func TestSplitTextCoversFullInput(t *testing.T) {
	text := strings.Repeat("x", 95)
	chunks := SplitText(text, 40, 10)

	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(text, last))

	total := 0
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 40)
		total += len(c)
	}
	assert.GreaterOrEqual(t, total, len(text), "overlap means chunks cover at least the input")
}

func TestSplitTextOverlapLargerThanChunkFallsBack(t *testing.T) {
	text := strings.Repeat("y", 50)
	chunks := SplitText(text, 10, 10)

	// Degenerate overlap falls back to non-overlapping steps instead of looping.
	require.Len(t, chunks, 5)
	for _, c := range chunks {
		assert.Len(t, c, 10)
	}
}

func TestSplitTextMeasuresChunkSizeInRunes(t *testing.T) {
	// 30 runes but 60 bytes: fits one chunk when size is counted in characters.
	text := strings.Repeat("ä", 30)
	chunks := SplitText(text, 30, 5)

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplitTextMultibyteRunesStayIntact(t *testing.T) {
	text := strings.Repeat("héllo wörld ", 20)
	chunks := SplitText(text, 30, 5)

	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for i := 1; i < len(chunks); i++ {
		runes := []rune(chunks[i])
		rebuilt.WriteString(string(runes[5:]))
	}
	assert.Equal(t, text, rebuilt.String())
}
