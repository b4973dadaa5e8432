package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"
)

// CatalogSource looks up a video and the caption tracks it offers
type CatalogSource interface {
	Lookup(ctx context.Context, videoURL string) (*VideoInfo, error)
}

// CaptionFetcher downloads a caption payload
type CaptionFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ProgressObserver is told about every state a run enters
type ProgressObserver interface {
	OnProgress(stage PipelineState, percent int)
}

// ProgressFunc adapts a function to ProgressObserver
type ProgressFunc func(stage PipelineState, percent int)

func (f ProgressFunc) OnProgress(stage PipelineState, percent int) {
	f(stage, percent)
}

// StageTiming records when a stage started and how long it ran
type StageTiming struct {
	Stage    PipelineState `json:"stage"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}

// TranscriptResult is the outcome of the Extract and Clean stages
type TranscriptResult struct {
	Video *VideoInfo    `json:"video"`
	Track SelectedTrack `json:"track"`
	Lines []string      `json:"lines"`
}

// Text is the transcript artifact, one caption line per line
func (t *TranscriptResult) Text() string {
	return JoinTranscript(t.Lines)
}

// RunResult is everything a finished or failed run produced
type RunResult struct {
	State       PipelineState `json:"state"`
	FailedStage PipelineState `json:"failed_stage,omitempty"`
	Err         error         `json:"-"`

	Video      *VideoInfo    `json:"video,omitempty"`
	Track      SelectedTrack `json:"track"`
	Transcript []string      `json:"transcript,omitempty"`
	Parts      []string      `json:"parts,omitempty"`
	Summary    string        `json:"summary,omitempty"`

	Timeline []StageTiming `json:"timeline"`
	Log      []string      `json:"log"`
	Elapsed  time.Duration `json:"elapsed"`
}

// TranscriptText is the transcript artifact of the run
func (r *RunResult) TranscriptText() string {
	return JoinTranscript(r.Transcript)
}

// LogTail returns at most n of the most recent run log lines
func (r *RunResult) LogTail(n int) []string {
	if r == nil {
		return nil
	}
	if len(r.Log) > n {
		return r.Log[len(r.Log)-n:]
	}
	return r.Log
}

// Pipeline sequences Extract, Clean and Summarize for a video
type Pipeline struct {
	source            CatalogSource
	fetcher           CaptionFetcher
	backend           ChunkSummarizer
	strategy          SummaryStrategy
	observer          ProgressObserver
	logger            *slog.Logger
	preferredLanguage string
	style             SummaryStyle
	logLines          int
}

// PipelineOption customizes a Pipeline
type PipelineOption func(*Pipeline)

// WithObserver sets the progress observer
func WithObserver(observer ProgressObserver) PipelineOption {
	return func(p *Pipeline) {
		p.observer = observer
	}
}

// WithPipelineLogger sets the logger every run forwards its log lines to
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithPreferredLanguage sets the caption language to look for first
func WithPreferredLanguage(lang string) PipelineOption {
	return func(p *Pipeline) {
		p.preferredLanguage = lang
	}
}

// WithStyle sets the summary preset
func WithStyle(style SummaryStyle) PipelineOption {
	return func(p *Pipeline) {
		p.style = style
	}
}

// WithLogLines bounds the per-run log
func WithLogLines(n int) PipelineOption {
	return func(p *Pipeline) {
		p.logLines = n
	}
}

// NewPipeline wires the collaborators of a run
func NewPipeline(source CatalogSource, fetcher CaptionFetcher, backend ChunkSummarizer, strategy SummaryStrategy, options ...PipelineOption) *Pipeline {
	p := &Pipeline{
		source:            source,
		fetcher:           fetcher,
		backend:           backend,
		strategy:          strategy,
		logger:            slog.New(slog.DiscardHandler),
		preferredLanguage: "en",
		style:             StyleShort,
		logLines:          DefaultLogLines,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Run executes a full pipeline run for videoURL.
//
// The returned result is never nil. On failure it records the failing stage
// and the error is a *StageError wrapping the cause.
func (p *Pipeline) Run(ctx context.Context, videoURL string) (*RunResult, error) {
	run := p.newRun()
	ctx = WithLogger(ctx, run.logger)
	run.logger.Info("Starting run", slog.String("video", videoURL))

	var transcript *TranscriptResult
	stages := []struct {
		state PipelineState
		exec  func(context.Context) error
	}{
		{StateExtracting, func(ctx context.Context) error {
			var err error
			transcript, err = p.extract(ctx, videoURL)
			if transcript != nil {
				run.result.Video = transcript.Video
				run.result.Track = transcript.Track
			}
			return err
		}},
		{StateCleaning, func(context.Context) error {
			return p.clean(ctx, transcript)
		}},
		{StateSummarizing, func(ctx context.Context) error {
			run.result.Transcript = transcript.Lines
			summary, err := p.summarize(ctx, transcript)
			if err != nil {
				return err
			}
			run.result.Parts = summary.Parts
			run.result.Summary = summary.Text
			return nil
		}},
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return run.fail(stage.state, err)
		}
		if err := run.enter(stage.state); err != nil {
			return run.result, err
		}
		if err := stage.exec(ctx); err != nil {
			return run.fail(stage.state, err)
		}
	}

	if err := run.enter(StateDone); err != nil {
		return run.result, err
	}
	run.logger.Info("Done", slog.Duration("elapsed", run.result.Elapsed.Round(time.Millisecond)))
	return run.finish(), nil
}

// Transcript runs only the Extract and Clean stages, without progress reports
func (p *Pipeline) Transcript(ctx context.Context, videoURL string) (*TranscriptResult, error) {
	ctx = WithLogger(ctx, p.logger)
	transcript, err := p.extract(ctx, videoURL)
	if err != nil {
		return transcript, &StageError{Stage: StateExtracting, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return transcript, &StageError{Stage: StateCleaning, Err: err}
	}
	if err := p.clean(ctx, transcript); err != nil {
		return transcript, &StageError{Stage: StateCleaning, Err: err}
	}
	return transcript, nil
}

// Catalog looks up the video and the track SelectTrack would pick
func (p *Pipeline) Catalog(ctx context.Context, videoURL string) (*VideoInfo, *SelectedTrack, error) {
	info, err := p.source.Lookup(ctx, videoURL)
	if err != nil {
		return nil, nil, err
	}
	track, err := SelectTrack(info.Captions, p.preferredLanguage)
	if errors.Is(err, ErrNoCaptionsAvailable) {
		return info, nil, nil
	}
	if err != nil {
		return info, nil, err
	}
	return info, &track, nil
}

func (p *Pipeline) extract(ctx context.Context, videoURL string) (*TranscriptResult, error) {
	logger := LoggerFrom(ctx)

	info, err := p.source.Lookup(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("looking up video: %w", err)
	}
	result := &TranscriptResult{Video: info}
	logger.Info("Found video", slog.String("title", info.Title), slog.String("channel", info.Channel))

	track, err := SelectTrack(info.Captions, p.preferredLanguage)
	if err != nil {
		return result, err
	}
	result.Track = track
	logger.Info("Selected captions", slog.String("origin", string(track.Origin)),
		slog.String("language", track.Language), slog.String("format", track.Variant.Format.String()))

	payload, err := p.fetcher.Fetch(ctx, track.Variant.Locator)
	if err != nil {
		return result, err
	}
	logger.Debug("Fetched captions", slog.Int("bytes", len(payload)))

	lines, err := DecodeCaptions(payload, track.Variant.Format)
	if err != nil {
		return result, err
	}
	result.Lines = lines
	logger.Info("Decoded captions", slog.Int("lines", len(lines)))
	return result, nil
}

func (p *Pipeline) clean(ctx context.Context, transcript *TranscriptResult) error {
	transcript.Lines = CleanTranscript(transcript.Lines)
	if len(transcript.Lines) == 0 {
		return ErrEmptyTranscript
	}
	LoggerFrom(ctx).Info("Cleaned transcript", slog.Int("lines", len(transcript.Lines)),
		slog.Int("chars", utf8.RuneCountInString(transcript.Text())))
	return nil
}

func (p *Pipeline) summarize(ctx context.Context, transcript *TranscriptResult) (SummaryResult, error) {
	params := ChunkParams{Style: p.style}
	if transcript.Video != nil {
		params.Title = transcript.Video.Title
		params.Channel = transcript.Video.Channel
	}
	LoggerFrom(ctx).Info("Using summary style", slog.String("style", p.style.String()))
	return p.strategy.Summarize(ctx, transcript.Text(), p.backend, params)
}

// Run is the per-run context: state machine, bounded log and result
type Run struct {
	state    PipelineState
	percent  int
	observer ProgressObserver
	logger   *slog.Logger
	log      *RunLog
	started  time.Time
	result   *RunResult
}

func (p *Pipeline) newRun() *Run {
	log := NewRunLog(p.logLines)
	return &Run{
		state:    StateIdle,
		observer: p.observer,
		logger:   slog.New(newRunLogHandler(log, p.logger.Handler())),
		log:      log,
		started:  time.Now(),
		result:   &RunResult{State: StateIdle},
	}
}

// State returns the current state of the run
func (r *Run) State() PipelineState {
	return r.state
}

// validTransition reports whether the state machine may move from one state to the next
func validTransition(from, to PipelineState) bool {
	switch to {
	case StateExtracting:
		return from == StateIdle
	case StateCleaning:
		return from == StateExtracting
	case StateSummarizing:
		return from == StateCleaning
	case StateDone:
		return from == StateSummarizing
	case StateFailed:
		return !from.IsTerminal()
	default:
		return false
	}
}

func (r *Run) transition(next PipelineState) error {
	if !validTransition(r.state, next) {
		return fmt.Errorf("%w: %q -> %q", ErrInvalidTransition, r.state, next)
	}

	now := time.Now()
	if n := len(r.result.Timeline); n > 0 {
		last := &r.result.Timeline[n-1]
		last.Duration = now.Sub(last.Started)
	}
	if next != StateFailed && next != StateDone {
		r.result.Timeline = append(r.result.Timeline, StageTiming{Stage: next, Started: now})
	}

	r.state = next
	r.result.State = next
	if next != StateFailed {
		r.percent = next.Percent()
	}
	if r.observer != nil {
		r.observer.OnProgress(next, r.percent)
	}
	return nil
}

func (r *Run) enter(stage PipelineState) error {
	if err := r.transition(stage); err != nil {
		return err
	}
	if stage != StateDone {
		r.logger.Info(string(stage) + "...")
	} else {
		r.result.Elapsed = time.Since(r.started)
	}
	return nil
}

// fail moves the run to Failed and returns the result with the stage error
func (r *Run) fail(stage PipelineState, err error) (*RunResult, error) {
	stageErr := &StageError{Stage: stage, Err: err}
	if terr := r.transition(StateFailed); terr != nil {
		return r.finish(), terr
	}
	r.result.FailedStage = stage
	r.result.Err = stageErr
	r.result.Elapsed = time.Since(r.started)
	r.logger.Error("Run failed", slog.String("stage", string(stage)), slog.Any("error", err))
	return r.finish(), stageErr
}

func (r *Run) finish() *RunResult {
	r.result.Log = r.log.Lines()
	return r.result
}
