package internal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ChunkParams is the context passed along with every chunk of transcript
type ChunkParams struct {
	Title   string
	Channel string
	Style   SummaryStyle
	Index   int
	Total   int
}

// ChunkSummarizer maps one piece of transcript to its summary
type ChunkSummarizer interface {
	SummarizeChunk(ctx context.Context, text string, params ChunkParams) (string, error)
}

// SummaryResult holds per-part summaries in transcript order and their rendering
type SummaryResult struct {
	Parts []string
	Text  string
}

// SummaryStrategy decides how a whole transcript is handed to a ChunkSummarizer
type SummaryStrategy interface {
	Summarize(ctx context.Context, text string, backend ChunkSummarizer, params ChunkParams) (SummaryResult, error)
}

const (
	ModeChunked  = "chunked"
	ModeTruncate = "truncate"
)

// NewSummaryStrategy builds the strategy named by config.SummaryMode
func NewSummaryStrategy(config *Config) (SummaryStrategy, error) {
	switch config.SummaryMode {
	case ModeChunked, "":
		if _, err := ChunkText("x", config.MaxChunkChars, config.OverlapChars); err != nil {
			return nil, err
		}
		return &ChunkedStrategy{
			MaxChars:     config.MaxChunkChars,
			OverlapChars: config.OverlapChars,
			Concurrency:       config.Concurrency,
			RequestsPerMinute: config.RequestsPerMinute,
		}, nil
	case ModeTruncate:
		return &TruncatingStrategy{MaxChars: config.MaxInputChars}, nil
	default:
		return nil, fmt.Errorf("unknown summary mode %q (use %s or %s)", config.SummaryMode, ModeChunked, ModeTruncate)
	}
}

// NewRequestLimiter paces backend calls to perMinute requests, nil when perMinute <= 0
func NewRequestLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

// ChunkedStrategy splits long text into overlapping windows and summarizes each
type ChunkedStrategy struct {
	MaxChars     int
	OverlapChars int
	// Concurrency bounds in-flight backend calls, values below 1 mean sequential
	Concurrency int
	// RequestsPerMinute paces the backend calls of one run, 0 disables pacing
	RequestsPerMinute int
}

func (s *ChunkedStrategy) Summarize(ctx context.Context, text string, backend ChunkSummarizer, params ChunkParams) (SummaryResult, error) {
	chunks, err := ChunkText(text, s.MaxChars, s.OverlapChars)
	if err != nil {
		return SummaryResult{}, err
	}
	if len(chunks) == 0 {
		return SummaryResult{}, ErrEmptyTranscript
	}

	limiter := NewRequestLimiter(s.RequestsPerMinute)
	parts := make([]string, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.Concurrency, 1))

	for _, chunk := range chunks {
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return &SummarizationFailedError{ChunkIndex: chunk.Index, Cause: err}
				}
			}
			p := params
			p.Index = chunk.Index
			p.Total = len(chunks)
			summary, err := backend.SummarizeChunk(gctx, chunk.Text, p)
			if err != nil {
				return &SummarizationFailedError{ChunkIndex: chunk.Index, Cause: err}
			}
			parts[chunk.Index] = strings.TrimSpace(summary)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return SummaryResult{}, err
	}

	return SummaryResult{Parts: parts, Text: assembleParts(parts)}, nil
}

// assembleParts joins summaries in index order, marking each part when there is more than one
func assembleParts(parts []string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	var sb strings.Builder
	for i, part := range parts {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "## Part %d/%d\n\n%s", i+1, len(parts), part)
	}
	return sb.String()
}

// DefaultMaxInputChars is the single-shot budget used by TruncatingStrategy
const DefaultMaxInputChars = 14000

// TruncatingStrategy makes one backend call with the transcript cut to MaxChars
type TruncatingStrategy struct {
	MaxChars int
}

func (s *TruncatingStrategy) Summarize(ctx context.Context, text string, backend ChunkSummarizer, params ChunkParams) (SummaryResult, error) {
	if strings.TrimSpace(text) == "" {
		return SummaryResult{}, ErrEmptyTranscript
	}

	limit := s.MaxChars
	if limit <= 0 {
		limit = DefaultMaxInputChars
	}
	if runes := []rune(text); len(runes) > limit {
		LoggerFrom(ctx).Warn(fmt.Sprintf("Transcript too long (%d chars). Cutting to %d chars.", len(runes), limit))
		text = string(runes[:limit])
	}

	params.Index = 0
	params.Total = 1
	summary, err := backend.SummarizeChunk(ctx, text, params)
	if err != nil {
		return SummaryResult{}, &SummarizationFailedError{ChunkIndex: 0, Cause: err}
	}
	summary = strings.TrimSpace(summary)
	return SummaryResult{Parts: []string{summary}, Text: summary}, nil
}
