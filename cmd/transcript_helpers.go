package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rtzll/clip2text/internal"
)

// fetchTranscript extracts and cleans the captions for the given argument
func fetchTranscript(cmd *cobra.Command, app *internal.App, arg string) (*internal.TranscriptResult, error) {
	videoURL, _, err := internal.ParseArg(arg)
	if err != nil {
		return nil, err
	}
	return app.Transcript(cmd.Context(), videoURL)
}
