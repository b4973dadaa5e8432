package internal

import "fmt"

// Chunk is a window of transcript text. Start and End are rune offsets.
type Chunk struct {
	Index int
	Start int
	End   int
	Text  string
}

// ChunkText splits text into windows of at most maxChars runes, each window
// starting maxChars-overlapChars runes after the previous one. Text that fits
// in one window comes back as a single chunk; empty text yields no chunks.
func ChunkText(text string, maxChars, overlapChars int) ([]Chunk, error) {
	if maxChars <= 0 || overlapChars < 0 || overlapChars >= maxChars {
		return nil, fmt.Errorf("%w: max_chunk_chars=%d overlap_chars=%d", ErrInvalidChunkConfig, maxChars, overlapChars)
	}

	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil, nil
	}
	if n <= maxChars {
		return []Chunk{{Index: 0, Start: 0, End: n, Text: text}}, nil
	}

	step := maxChars - overlapChars
	chunks := make([]Chunk, 0, (n+step-1)/step)
	for start := 0; start < n; start += step {
		end := min(start+maxChars, n)
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Start: start,
			End:   end,
			Text:  string(runes[start:end]),
		})
	}
	return chunks, nil
}
