package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/rtzll/clip2text/internal"
)

// cpCmd copies the transcript to the system clipboard instead of printing to stdout.
var cpCmd = &cobra.Command{
	Use:   "cp [URL]",
	Short: "Copy transcript (or summary) of a YouTube video to the clipboard",
	Example: `  # Copy transcript from YouTube captions
  clip2text cp "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  clip2text cp tAP1eZYEuKA

  # Copy the summary instead
  clip2text cp tAP1eZYEuKA --summary --style detailed`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}

		what := "Transcript"
		var text string
		summary, _ := cmd.Flags().GetBool("summary")
		if summary {
			if err := internal.ValidateBackendRequirements(config); err != nil {
				return err
			}
			videoURL, _, err := internal.ParseArg(args[0])
			if err != nil {
				return err
			}
			result, err := app.Summarize(cmd.Context(), videoURL)
			if err != nil {
				return err
			}
			what, text = "Summary", result.Summary
		} else {
			transcript, err := fetchTranscript(cmd, app, args[0])
			if err != nil {
				return err
			}
			text = transcript.Text()
		}

		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("copying %s to clipboard: %w", what, err)
		}

		if !config.Quiet {
			fmt.Printf("%s copied to clipboard\n", what)
		}

		return nil
	},
}

func init() {
	internal.AddCaptionFlags(cpCmd)
	internal.AddSummaryFlags(cpCmd)
	cpCmd.Flags().Bool("summary", false, "Copy the summary instead of the transcript")
	rootCmd.AddCommand(cpCmd)
}
