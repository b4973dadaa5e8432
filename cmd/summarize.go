package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rtzll/clip2text/internal"
)

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize [YouTube URL or ID]",
	Short: "Generate summary from YouTube video",
	Example: `  # Generate summary from YouTube video
  clip2text summarize "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  clip2text summarize tAP1eZYEuKA

  # Executive brief with Gemini
  clip2text summarize tAP1eZYEuKA --style executive --backend gemini

  # One request with the transcript cut to max_input_chars
  clip2text summarize tAP1eZYEuKA --mode truncate

  # Smaller chunks for models with short context
  clip2text summarize tAP1eZYEuKA --max-chunk-chars 6000 --overlap-chars 200`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSummarize(cmd, args[0])
	},
}

func init() {
	internal.AddCaptionFlags(summarizeCmd)
	internal.AddSummaryFlags(summarizeCmd)
	internal.AddOutputFlags(summarizeCmd)
	rootCmd.AddCommand(summarizeCmd)
}
