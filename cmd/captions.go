package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rtzll/clip2text/internal"
)

// captionsCmd represents the captions command
var captionsCmd = &cobra.Command{
	Use:   "captions [URL]",
	Short: "List the caption tracks of a YouTube video",
	Long: `List the caption tracks of a YouTube video as JSON: manual and auto-generated
tracks per language with their formats, and the track a transcript would use.`,
	Example: `  # Show caption tracks
  clip2text captions "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  clip2text captions tAP1eZYEuKA --lang fr

  # Save the report to file
  clip2text captions tAP1eZYEuKA -o captions.json

  # Format output as pretty JSON
  clip2text captions tAP1eZYEuKA --pretty`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		videoURL, _, err := internal.ParseArg(args[0])
		if err != nil {
			return err
		}

		report, err := app.Captions(cmd.Context(), videoURL)
		if err != nil {
			return err
		}

		var jsonData []byte
		pretty, _ := cmd.Flags().GetBool("pretty")
		if pretty {
			jsonData, err = json.MarshalIndent(report, "", "  ")
		} else {
			jsonData, err = json.Marshal(report)
		}
		if err != nil {
			return fmt.Errorf("error converting caption report to JSON: %w", err)
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			return os.WriteFile(outputFile, jsonData, 0644)
		}

		fmt.Println(string(jsonData))
		if report.Selected == nil && !config.Quiet {
			fmt.Fprintln(os.Stderr, internal.ErrNoCaptionsAvailable)
		}

		return nil
	},
}

func init() {
	internal.AddCaptionFlags(captionsCmd)
	captionsCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	captionsCmd.Flags().Bool("pretty", false, "Format output as pretty JSON")
	rootCmd.AddCommand(captionsCmd)
}
