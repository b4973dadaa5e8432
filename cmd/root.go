package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rtzll/clip2text/internal"
)

var (
	config *internal.Config
)

// failureLogLines is how much of the run log is shown when a run fails
const failureLogLines = 35

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "clip2text [YouTube URL or ID]",
	Short: "Turn YouTube videos into clean transcripts and summaries",
	Long: `clip2text turns a YouTube video into a cleaned plain-text transcript
and a structured Markdown summary.

Captions are taken from YouTube (manual captions first, then auto-generated),
cleaned of timing cues, annotations and repeated lines, and summarized by
Groq, OpenAI or Gemini. Long transcripts are summarized in overlapping parts.`,
	Example: `  # Summarize a YouTube video (default behavior)
  clip2text "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  clip2text tAP1eZYEuKA

  # Pick a summary style and caption language
  clip2text "https://youtu.be/tAP1eZYEuKA" --style study --lang de

  # Use OpenAI instead of Groq
  clip2text tAP1eZYEuKA --backend openai --model gpt-4o

  # Use custom prompt for summary
  clip2text tAP1eZYEuKA --prompt "tldr: {{.Transcript}}"

  # Write clip2text_transcript.txt and clip2text_summary.txt
  clip2text tAP1eZYEuKA -o ./notes`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	SilenceUsage: true,
	Args:         cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := args[0]
		if internal.IsLikelyCommand(arg) {
			availableCommands := []string{"mcp", "transcribe", "summarize", "captions", "styles", "cp", "version", "paths", "help"}
			var suggestions []string
			for _, cmdName := range availableCommands {
				if strings.Contains(cmdName, arg) || (len(arg) <= len(cmdName) && strings.Contains(arg, cmdName[:len(arg)])) {
					suggestions = append(suggestions, cmdName)
				}
			}

			if len(suggestions) > 0 {
				return fmt.Errorf("'%s' doesn't look like a YouTube URL or video ID. Did you mean: %s?", arg, strings.Join(suggestions, ", "))
			}
			return fmt.Errorf("'%s' doesn't look like a YouTube URL or video ID. Use --help to see available commands", arg)
		}

		return runSummarize(cmd, arg)
	},
}

// loadConfig reads configuration and applies the flags of the command being run
func loadConfig(cmd *cobra.Command) error {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}

	config, err = internal.InitConfig(configFile)
	if err != nil {
		return err
	}

	if err := internal.EnsureDirs(config.ConfigDir, config.DataDir, config.CacheDir); err != nil {
		return fmt.Errorf("creating XDG directories: %w", err)
	}

	if configFile == "" {
		if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
		}
	}

	if err := internal.EnsureDefaultPrompt(config.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default prompt: %v\n", err)
	}

	for name, target := range map[string]*bool{"verbose": &config.Verbose, "quiet": &config.Quiet} {
		if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
			value, err := cmd.Flags().GetBool(name)
			if err != nil {
				return fmt.Errorf("failed to get %s flag: %w", name, err)
			}
			*target = value
		}
	}

	if config.Verbose && config.ConfigFileUsed() != "" {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", config.ConfigFileUsed())
	}

	return internal.ApplyFlags(cmd, config)
}

// newApp builds the application from the loaded config and the --prompt flag
func newApp(cmd *cobra.Command) (*internal.App, error) {
	app, err := internal.NewApp(config)
	if err != nil {
		return nil, err
	}
	if err := internal.HandlePromptFlag(cmd, app); err != nil {
		return nil, err
	}
	return app, nil
}

// runSummarize runs the whole pipeline and prints the summary
func runSummarize(cmd *cobra.Command, arg string) error {
	if err := internal.ValidateBackendRequirements(config); err != nil {
		return err
	}

	videoURL, _, err := internal.ParseArg(arg)
	if err != nil {
		return err
	}

	app, err := newApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.Summarize(cmd.Context(), videoURL)
	if err != nil {
		if !config.Quiet && !config.Verbose {
			for _, line := range result.LogTail(failureLogLines) {
				fmt.Fprintln(os.Stderr, line)
			}
		}
		return err
	}

	dir, err := internal.OutputDir(cmd, config)
	if err != nil {
		return err
	}
	if dir != "" {
		paths, err := app.SaveArtifacts(result, dir)
		if err != nil {
			return err
		}
		for _, path := range paths {
			fmt.Fprintf(os.Stderr, "Saved %s\n", path)
		}
	}

	if !config.Quiet {
		fmt.Fprintln(os.Stderr, app.Report(result))
	}
	fmt.Println(app.FormatSummary(result.Summary))
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal. Shutting down...")

		// stop every stage, retry wait and backend call
		cancel()

		// give the current run a moment to report its failed stage
		select {
		case <-sigCh:
		case <-time.After(3 * time.Second):
			fmt.Fprintln(os.Stderr, "Warning: Shutdown timed out, forcing exit")
		}
		os.Exit(1)
	}()

	rootCmd.SetContext(ctx)

	return rootCmd.Execute()
}

func init() {
	internal.AddCaptionFlags(rootCmd)
	internal.AddSummaryFlags(rootCmd)
	internal.AddOutputFlags(rootCmd)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only print results, no progress or reports")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $XDG_CONFIG_HOME/clip2text/config.toml)")
}
