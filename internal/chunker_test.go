package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextWindows(t *testing.T) {
	text := "abcdefghijklmnopqrstuvwxy" // 25 chars

	chunks, err := ChunkText(text, 10, 2)
	require.NoError(t, err)
	require.Len(t, chunks, 4)

	starts := make([]int, len(chunks))
	for i, c := range chunks {
		starts[i] = c.Start
		assert.Equal(t, i, c.Index)
		assert.LessOrEqual(t, c.End-c.Start, 10)
		assert.Equal(t, text[c.Start:c.End], c.Text)
	}
	assert.Equal(t, []int{0, 8, 16, 24}, starts)
	assert.Equal(t, "abcdefghij", chunks[0].Text)
	assert.Equal(t, "ijklmnopqr", chunks[1].Text)
	assert.Equal(t, "y", chunks[3].Text)
	assert.Equal(t, len(text), chunks[len(chunks)-1].End)
}

func TestChunkTextCoversEveryRune(t *testing.T) {
	text := strings.Repeat("0123456789", 37) + "xyz"
	chunks, err := ChunkText(text, 64, 16)
	require.NoError(t, err)

	covered := make([]bool, len(text))
	for i, c := range chunks {
		for j := c.Start; j < c.End; j++ {
			covered[j] = true
		}
		if i > 0 {
			assert.Equal(t, chunks[i-1].Start+48, c.Start)
		}
	}
	for i, ok := range covered {
		assert.True(t, ok, "rune %d not covered", i)
	}
}

func TestChunkTextSingleChunk(t *testing.T) {
	chunks, err := ChunkText("short text", 10, 3)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, Chunk{Index: 0, Start: 0, End: 10, Text: "short text"}, chunks[0])
}

func TestChunkTextEmpty(t *testing.T) {
	chunks, err := ChunkText("", 10, 2)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkTextCountsRunes(t *testing.T) {
	text := strings.Repeat("é", 7) + strings.Repeat("日", 5) // 12 runes, 29 bytes

	chunks, err := ChunkText(text, 6, 0)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Repeat("é", 6), chunks[0].Text)
	assert.Equal(t, "é"+strings.Repeat("日", 5), chunks[1].Text)
	assert.Equal(t, 12, chunks[1].End)
}

func TestChunkTextInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		max     int
		overlap int
	}{
		{"zero max", 0, 0},
		{"negative max", -5, 0},
		{"negative overlap", 10, -1},
		{"overlap equals max", 10, 10},
		{"overlap exceeds max", 10, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ChunkText("some text that is long enough", tt.max, tt.overlap)
			assert.ErrorIs(t, err, ErrInvalidChunkConfig)
		})
	}
}
