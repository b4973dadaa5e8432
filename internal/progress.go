package internal

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// UIManager handles what the user sees on stderr while a command runs
type UIManager interface {
	NewProgressBar(total int, description string) ProgressBar
	Verbose(format string, args ...any)
}

// ProgressBar is the part of a progress bar the pipeline drives
type ProgressBar interface {
	Set(current int)
	Describe(description string)
	Finish()
}

// StandardUIManager writes progress and verbose output to a terminal stream
type StandardUIManager struct {
	verbose bool
	quiet   bool
	out     io.Writer
}

// NewUIManager creates a UI writing to stderr, so stdout stays clean for results
func NewUIManager(verbose, quiet bool) UIManager {
	return &StandardUIManager{
		verbose: verbose,
		quiet:   quiet,
		out:     os.Stderr,
	}
}

func (ui *StandardUIManager) NewProgressBar(total int, description string) ProgressBar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(ui.out),
		progressbar.OptionSetVisibility(!ui.quiet),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return &stageBar{bar: bar}
}

func (ui *StandardUIManager) Verbose(format string, args ...any) {
	if ui.verbose && !ui.quiet {
		fmt.Fprintf(ui.out, format, args...)
	}
}

// stageBar drops the errors progressbar returns for writes to a closed terminal
type stageBar struct {
	bar *progressbar.ProgressBar
}

func (b *stageBar) Set(current int) {
	_ = b.bar.Set(current)
}

func (b *stageBar) Describe(description string) {
	b.bar.Describe(description)
}

func (b *stageBar) Finish() {
	_ = b.bar.Finish()
}

// BarObserver shows pipeline progress on a 0-100 progress bar
type BarObserver struct {
	bar ProgressBar
}

// NewBarObserver creates an observer drawing on a fresh bar from ui
func NewBarObserver(ui UIManager) *BarObserver {
	return &BarObserver{bar: ui.NewProgressBar(100, "Starting")}
}

var stageDescriptions = map[PipelineState]string{
	StateExtracting:  "Extracting captions",
	StateCleaning:    "Cleaning transcript",
	StateSummarizing: "Summarizing",
	StateDone:        "Done",
	StateFailed:      "Failed",
}

func (o *BarObserver) OnProgress(stage PipelineState, percent int) {
	if desc, ok := stageDescriptions[stage]; ok {
		o.bar.Describe(desc)
	}
	o.bar.Set(percent)
	if stage.IsTerminal() {
		o.bar.Finish()
	}
}
