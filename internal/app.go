package internal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// App holds the application state and dependencies
type App struct {
	source     CatalogSource
	fetcher    CaptionFetcher
	summarizer ChunkSummarizer
	ai         *AI
	strategy   SummaryStrategy
	style      SummaryStyle
	config     *Config
	ui         UIManager
	logger     *slog.Logger
}

// AppOption customizes App creation
type AppOption func(*App)

// WithCatalogSource sets where videos and caption tracks are looked up
func WithCatalogSource(source CatalogSource) AppOption {
	return func(a *App) {
		a.source = source
	}
}

// WithCaptionFetcher sets the caption downloader
func WithCaptionFetcher(fetcher CaptionFetcher) AppOption {
	return func(a *App) {
		a.fetcher = fetcher
	}
}

// WithSummarizer sets a custom summarization backend
func WithSummarizer(summarizer ChunkSummarizer) AppOption {
	return func(a *App) {
		a.summarizer = summarizer
	}
}

// WithUI sets the UI manager
func WithUI(ui UIManager) AppOption {
	return func(a *App) {
		a.ui = ui
	}
}

// WithAppLogger sets the application logger
func WithAppLogger(logger *slog.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// NewApp initializes the application
func NewApp(config *Config, options ...AppOption) (*App, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	style, err := config.Style()
	if err != nil {
		return nil, err
	}
	strategy, err := NewSummaryStrategy(config)
	if err != nil {
		return nil, err
	}

	promptManager := NewPromptManager(config.ConfigDir, config.Prompt)
	ai := NewAIWithKey(promptManager, config)

	app := &App{
		source: NewYouTube(),
		fetcher: NewFetcher(
			WithHTTPClient(&http.Client{}),
			WithMaxAttempts(config.MaxRetryAttempts),
			WithAttemptTimeout(config.FetchTimeout),
		),
		summarizer: ai,
		ai:         ai,
		strategy:   strategy,
		style:      style,
		config:     config,
		ui:         NewUIManager(config.Verbose, config.Quiet),
		logger:     NewLogger(os.Stderr, config.Verbose),
	}

	for _, option := range options {
		option(app)
	}

	return app, nil
}

// Config returns the configuration the app was built with
func (app *App) Config() *Config {
	return app.config
}

// SetPromptManager sets a new prompt manager
func (app *App) SetPromptManager(pm *PromptManager) {
	app.ai.SetPromptManager(pm)
}

func (app *App) pipeline(observer ProgressObserver) *Pipeline {
	options := []PipelineOption{
		WithPipelineLogger(app.logger),
		WithPreferredLanguage(app.config.PreferredLanguage),
		WithStyle(app.style),
		WithLogLines(app.config.LogLines),
	}
	if observer != nil {
		options = append(options, WithObserver(observer))
	}
	return NewPipeline(app.source, app.fetcher, app.summarizer, app.strategy, options...)
}

// Summarize runs the full pipeline for a video, showing progress unless quiet
func (app *App) Summarize(ctx context.Context, videoURL string) (*RunResult, error) {
	var observer ProgressObserver
	if !app.config.Quiet {
		observer = NewBarObserver(app.ui)
	}
	return app.SummarizeWithObserver(ctx, videoURL, observer)
}

// SummarizeWithObserver runs the full pipeline reporting to observer, which may be nil
func (app *App) SummarizeWithObserver(ctx context.Context, videoURL string, observer ProgressObserver) (*RunResult, error) {
	app.ui.Verbose("Summarizing %s with %s (%s), style %q\n",
		videoURL, app.config.Backend, app.config.ModelName(), app.style)
	return app.pipeline(observer).Run(ctx, videoURL)
}

// Transcript extracts and cleans the captions of a video
func (app *App) Transcript(ctx context.Context, videoURL string) (*TranscriptResult, error) {
	return app.pipeline(nil).Transcript(ctx, videoURL)
}

// CaptionReport describes the caption tracks of a video
type CaptionReport struct {
	Video     *VideoInfo     `json:"video"`
	Thumbnail string         `json:"thumbnail"`
	Selected  *SelectedTrack `json:"selected,omitempty"`
}

// Captions looks up the caption catalog and the track that would be used
func (app *App) Captions(ctx context.Context, videoURL string) (*CaptionReport, error) {
	ctx = WithLogger(ctx, app.logger)
	info, track, err := app.pipeline(nil).Catalog(ctx, videoURL)
	if err != nil {
		return nil, err
	}
	return &CaptionReport{Video: info, Thumbnail: info.Thumbnail(), Selected: track}, nil
}

// SaveArtifacts writes the run's transcript and summary into dir (or the configured output dir)
func (app *App) SaveArtifacts(result *RunResult, dir string) ([]string, error) {
	if dir == "" {
		dir = app.config.OutputDir
	}
	return SaveArtifacts(dir, result.TranscriptText(), result.Summary)
}

// FormatSummary renders the summary as Markdown for terminals, plain text otherwise
func (app *App) FormatSummary(summary string) string {
	if !IsTerminal() {
		return summary
	}
	rendered, err := RenderMarkdown(summary)
	if err != nil {
		app.logger.Warn("rendering markdown failed", slog.Any("error", err))
		return summary
	}
	return rendered
}

// Report is a short description of a finished run
func (app *App) Report(result *RunResult) string {
	var sb strings.Builder
	if v := result.Video; v != nil {
		fmt.Fprintf(&sb, "Title: %s\n", v.Title)
		if v.Channel != "" {
			fmt.Fprintf(&sb, "Channel: %s\n", v.Channel)
		}
		if v.Duration > 0 {
			fmt.Fprintf(&sb, "Duration: %s\n", FormatDuration(v.Duration))
		}
		if thumb := v.Thumbnail(); thumb != "" {
			fmt.Fprintf(&sb, "Thumbnail: %s\n", thumb)
		}
	}
	if result.Track.Language != "" {
		fmt.Fprintf(&sb, "Captions: %s\n", result.Track)
	}
	fmt.Fprintf(&sb, "Style: %s\n", app.style)
	fmt.Fprintf(&sb, "Elapsed: %s\n", result.Elapsed.Round(100*time.Millisecond))
	return sb.String()
}

// FormatDuration formats seconds as h:mm:ss or m:ss
func FormatDuration(seconds float64) string {
	total := int(seconds)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Override returns a copy of app using a different caption language or summary style.
// Empty arguments keep the current setting.
func (app *App) Override(lang, style string) (*App, error) {
	clone := *app
	config := *app.config
	clone.config = &config
	if lang != "" {
		config.PreferredLanguage = lang
	}
	if style != "" {
		parsed, err := ParseSummaryStyle(style)
		if err != nil {
			return nil, err
		}
		config.SummaryStyle = parsed.Key()
		clone.style = parsed
	}
	return &clone, nil
}
