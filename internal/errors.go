package internal

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoCaptionsAvailable is returned when a catalog has no usable track
	ErrNoCaptionsAvailable = errors.New("no captions/subtitles available for this video")
	// ErrFetchExhausted is matched by FetchExhaustedError
	ErrFetchExhausted = errors.New("still rate-limited while fetching captions, try again later")
	// ErrCaptionPayloadTooLarge is returned when a caption response exceeds the fetcher's size limit
	ErrCaptionPayloadTooLarge = errors.New("caption payload too large")
	// ErrMalformedCaptionPayload is returned when a json3 payload cannot be parsed
	ErrMalformedCaptionPayload = errors.New("malformed caption payload")
	// ErrSummarizationFailed is matched by SummarizationFailedError
	ErrSummarizationFailed = errors.New("summarization failed")
	// ErrInvalidChunkConfig is returned when chunking could not make progress
	ErrInvalidChunkConfig = errors.New("invalid chunk config")
	// ErrUnknownStyle is returned for style names outside the preset list
	ErrUnknownStyle = errors.New("unknown summary style")
	// ErrEmptyTranscript is returned when cleaning leaves nothing to summarize
	ErrEmptyTranscript = errors.New("transcript is empty")
	// ErrInvalidTransition is returned when the pipeline state machine is misused
	ErrInvalidTransition = errors.New("invalid pipeline transition")
)

// HTTPError is a non-200, non-429 caption fetch response
type HTTPError struct {
	Status  int
	Attempt int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetching captions: HTTP %d %s (attempt %d)", e.Status, http.StatusText(e.Status), e.Attempt)
}

// FetchExhaustedError is returned after every attempt was rate limited
type FetchExhaustedError struct {
	Attempts int
}

func (e *FetchExhaustedError) Error() string {
	return fmt.Sprintf("%v (%d attempts)", ErrFetchExhausted, e.Attempts)
}

func (e *FetchExhaustedError) Is(target error) bool {
	return target == ErrFetchExhausted
}

// SummarizationFailedError wraps a backend failure for one chunk
type SummarizationFailedError struct {
	ChunkIndex int
	Cause      error
}

func (e *SummarizationFailedError) Error() string {
	return fmt.Sprintf("summarizing chunk %d: %v", e.ChunkIndex, e.Cause)
}

func (e *SummarizationFailedError) Unwrap() error {
	return e.Cause
}

func (e *SummarizationFailedError) Is(target error) bool {
	return target == ErrSummarizationFailed
}

// StageError is what a failed pipeline run returns
type StageError struct {
	Stage PipelineState
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
