package internal

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// PromptData for template injection
type PromptData struct {
	Title       string
	Channel     string
	Style       string
	Instruction string
	Transcript  string
	Part        int
	Parts       int
}

// PromptManager handles loading and processing prompt templates
type PromptManager struct {
	promptFile   string
	promptString string
	configDir    string
}

// NewPromptManager creates a new prompt manager
func NewPromptManager(configDir, promptSetting string) *PromptManager {
	pm := &PromptManager{
		configDir: configDir,
	}

	if promptSetting != "" {
		if IsLikelyFilePath(promptSetting) && FileExists(promptSetting) {
			pm.promptFile = promptSetting
		} else {
			pm.promptString = promptSetting
		}
	}

	return pm
}

// CreatePrompt builds the prompt for one chunk of transcript
func (pm *PromptManager) CreatePrompt(chunk string, params ChunkParams) (string, error) {
	tmplContent, err := pm.templateContent()
	if err != nil {
		return "", err
	}

	parts := params.Total
	if parts < 1 {
		parts = 1
	}
	data := PromptData{
		Title:       params.Title,
		Channel:     params.Channel,
		Style:       params.Style.String(),
		Instruction: params.Style.Instruction(),
		Transcript:  chunk,
		Part:        params.Index + 1,
		Parts:       parts,
	}

	return buildPromptFromTemplate(tmplContent, data)
}

// templateContent resolves the custom string, custom file or default prompt.txt
func (pm *PromptManager) templateContent() (string, error) {
	if pm.promptString != "" {
		return pm.promptString, nil
	}

	promptFile := pm.promptFile
	if promptFile == "" {
		promptFile = filepath.Join(pm.configDir, "prompt.txt")
	}

	content, err := os.ReadFile(promptFile)
	if err != nil {
		if pm.promptFile == "" && os.IsNotExist(err) {
			return defaultPromptTemplate()
		}
		return "", fmt.Errorf("reading prompt template: %w", err)
	}
	return string(content), nil
}

func defaultPromptTemplate() (string, error) {
	content, err := defaultFS.ReadFile("prompt.txt")
	if err != nil {
		return "", fmt.Errorf("reading embedded prompt template: %w", err)
	}
	return string(content), nil
}

func buildPromptFromTemplate(templateContent string, data PromptData) (string, error) {
	tmpl, err := template.New("prompt").Parse(templateContent)
	if err != nil {
		return "", fmt.Errorf("parsing prompt template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing prompt template: %w", err)
	}

	return buf.String(), nil
}

// IsLikelyFilePath uses heuristics to determine if a string is likely a file path
func IsLikelyFilePath(s string) bool {
	if strings.Contains(s, "/") || strings.Contains(s, "\\") {
		return true
	}

	if strings.Contains(s, ".txt") || strings.Contains(s, ".md") ||
		strings.Contains(s, ".template") || strings.Contains(s, ".tmpl") {
		return true
	}

	// long strings are prompts, not paths
	if len(s) > 200 {
		return false
	}

	return !strings.Contains(s, " ") && !strings.Contains(s, "\n")
}
