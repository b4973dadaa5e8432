package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddCaptionFlags adds flags that control caption selection and download
func AddCaptionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("lang", "l", "", "Preferred caption language (default from config, usually en)")
	cmd.Flags().Int("retries", 0, "Attempts when YouTube rate-limits caption downloads")
}

// AddSummaryFlags adds flags related to summarization
func AddSummaryFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("style", "s", "", "Summary style: short, detailed, study, interview or executive")
	cmd.Flags().String("mode", "", "Summary mode: chunked or truncate")
	cmd.Flags().StringP("backend", "b", "", "Summarization backend: groq, openai or gemini")
	cmd.Flags().StringP("model", "m", "", "Model to use for summaries")
	cmd.Flags().StringP("prompt", "p", "", "Custom prompt (string or file path)")
	cmd.Flags().Int("max-chunk-chars", 0, "Characters per transcript chunk in chunked mode")
	cmd.Flags().Int("overlap-chars", -1, "Characters shared by consecutive chunks")
}

// AddOutputFlags adds flags that control where artifacts are written
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output-dir", "o", "", "Write clip2text_transcript.txt and clip2text_summary.txt to this directory")
	cmd.Flags().Bool("save", false, "Write artifacts to the configured output directory")
}

// ApplyFlags copies explicitly set command flags over the loaded configuration
func ApplyFlags(cmd *cobra.Command, config *Config) error {
	flags := cmd.Flags()

	stringFlags := map[string]*string{
		"lang":    &config.PreferredLanguage,
		"style":   &config.SummaryStyle,
		"mode":    &config.SummaryMode,
		"backend": &config.Backend,
		"model":   &config.Model,
	}
	for name, target := range stringFlags {
		if flag := flags.Lookup(name); flag == nil || !flag.Changed {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*target = value
	}

	intFlags := map[string]*int{
		"retries":         &config.MaxRetryAttempts,
		"max-chunk-chars": &config.MaxChunkChars,
		"overlap-chars":   &config.OverlapChars,
	}
	for name, target := range intFlags {
		if flag := flags.Lookup(name); flag == nil || !flag.Changed {
			continue
		}
		value, err := flags.GetInt(name)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*target = value
	}

	return nil
}

// HandlePromptFlag processes the --prompt flag to set custom prompt
func HandlePromptFlag(cmd *cobra.Command, app *App) error {
	promptFlag := cmd.Flags().Lookup("prompt")
	if promptFlag == nil || !promptFlag.Changed {
		return nil
	}

	prompt, err := cmd.Flags().GetString("prompt")
	if err != nil {
		return fmt.Errorf("failed to get prompt flag: %w", err)
	}

	if prompt == "" {
		return nil
	}

	app.SetPromptManager(NewPromptManager(app.config.ConfigDir, prompt))

	if IsLikelyFilePath(prompt) && FileExists(prompt) {
		app.ui.Verbose("Using custom prompt file: %s\n", prompt)
	} else {
		app.ui.Verbose("Using custom prompt string\n")
	}

	return nil
}

// OutputDir returns the directory artifacts should be written to, or "" for none
func OutputDir(cmd *cobra.Command, config *Config) (string, error) {
	dir, err := cmd.Flags().GetString("output-dir")
	if err != nil {
		return "", fmt.Errorf("failed to get output-dir flag: %w", err)
	}
	if dir != "" {
		return dir, nil
	}
	save, err := cmd.Flags().GetBool("save")
	if err != nil {
		return "", fmt.Errorf("failed to get save flag: %w", err)
	}
	if save {
		return config.OutputDir, nil
	}
	return "", nil
}

// ValidateBackendRequirements checks the API key of the configured backend
func ValidateBackendRequirements(config *Config) error {
	return ValidateAPIKey(config.Backend, config.APIKey())
}
