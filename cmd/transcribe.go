package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rtzll/clip2text/internal"
)

// transcribeCmd represents the transcribe command
var transcribeCmd = &cobra.Command{
	Use:   "transcribe [YouTube URL or ID]",
	Short: "Get the cleaned transcript of a YouTube video",
	Example: `  # Print the transcript from YouTube captions
  clip2text transcribe "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  clip2text transcribe tAP1eZYEuKA

  # Prefer Spanish captions
  clip2text transcribe tAP1eZYEuKA --lang es

  # Save transcript to file
  clip2text transcribe tAP1eZYEuKA -o transcript.txt

  # Save as clip2text_transcript.txt in the configured output directory
  clip2text transcribe tAP1eZYEuKA --save`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}

		transcript, err := fetchTranscript(cmd, app, args[0])
		if err != nil {
			return err
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			return os.WriteFile(outputFile, []byte(transcript.Text()), 0644)
		}

		save, _ := cmd.Flags().GetBool("save")
		if save {
			paths, err := internal.SaveArtifacts(config.OutputDir, transcript.Text(), "")
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Saved %s\n", paths[0])
			return nil
		}

		fmt.Println(transcript.Text())
		return nil
	},
}

func init() {
	internal.AddCaptionFlags(transcribeCmd)
	transcribeCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	transcribeCmd.Flags().Bool("save", false, "Write clip2text_transcript.txt to the configured output directory")
	rootCmd.AddCommand(transcribeCmd)
}
