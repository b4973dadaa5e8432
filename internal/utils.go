package internal

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	// SummaryFileName is the fixed name of the summary artifact
	SummaryFileName = "clip2text_summary.txt"
	// TranscriptFileName is the fixed name of the cleaned transcript artifact
	TranscriptFileName = "clip2text_transcript.txt"
)

var videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ParseArg normalizes a YouTube video ID or URL into a watch URL and the video ID
func ParseArg(arg string) (string, string, error) {
	arg = strings.TrimSpace(arg)
	if IsValidYouTubeID(arg) {
		return "https://www.youtube.com/watch?v=" + arg, arg, nil
	}

	videoID, err := ExtractVideoID(arg)
	if err != nil {
		return "", "", err
	}
	return "https://www.youtube.com/watch?v=" + videoID, videoID, nil
}

// ExtractVideoID gets the video ID out of watch, youtu.be, shorts, embed and live URLs
func ExtractVideoID(youtubeURL string) (string, error) {
	youtubeURL = strings.TrimSpace(youtubeURL)
	if !strings.Contains(youtubeURL, "://") {
		youtubeURL = "https://" + youtubeURL
	}
	u, err := url.Parse(youtubeURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")
	switch host {
	case "youtube.com", "music.youtube.com", "youtube-nocookie.com":
	case "youtu.be":
		if id := firstPathSegment(u.Path); IsValidYouTubeID(id) {
			return id, nil
		}
		return "", fmt.Errorf("could not extract video ID from URL: %s", youtubeURL)
	default:
		return "", fmt.Errorf("not a YouTube URL: %s", youtubeURL)
	}

	if v := u.Query().Get("v"); v != "" {
		if IsValidYouTubeID(v) {
			return v, nil
		}
		return "", fmt.Errorf("invalid video ID %q in URL: %s", v, youtubeURL)
	}

	for _, prefix := range []string{"/shorts/", "/embed/", "/live/", "/v/"} {
		if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
			if id := firstPathSegment(rest); IsValidYouTubeID(id) {
				return id, nil
			}
		}
	}

	return "", fmt.Errorf("could not extract video ID from URL: %s", youtubeURL)
}

func firstPathSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}

// IsValidYouTubeID checks if a string looks like a YouTube video ID
func IsValidYouTubeID(id string) bool {
	return videoIDRe.MatchString(id)
}

// IsLikelyCommand checks if a string looks like it might be a mistyped command
func IsLikelyCommand(arg string) bool {
	if strings.Contains(arg, "/") || strings.Contains(arg, ".") {
		return false
	}
	return len(arg) <= 10 && !IsValidYouTubeID(arg)
}

// ThumbnailURL returns the high resolution thumbnail of a video
func ThumbnailURL(videoID string) string {
	return "https://i.ytimg.com/vi/" + videoID + "/maxresdefault.jpg"
}

// IsTerminal reports whether stdout is attached to a terminal
func IsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// getTerminalWidth gets terminal width with fallback
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}

	if width > 10 {
		return width - 4
	}

	return width
}

// RenderMarkdown renders markdown content with glamour
func RenderMarkdown(content string) (string, error) {
	width := getTerminalWidth()
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.EnvColorProfile()),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	renderedContent, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return renderedContent, nil
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// EnsureDirs creates directories if needed
func EnsureDirs(dir ...string) error {
	for _, dir := range dir {
		if !FileExists(dir) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	return nil
}

// SaveArtifacts writes the transcript and summary under their fixed names in dir.
// An empty summary is not written.
func SaveArtifacts(dir, transcript, summary string) ([]string, error) {
	if err := EnsureDirs(dir); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var written []string
	transcriptPath := filepath.Join(dir, TranscriptFileName)
	if err := os.WriteFile(transcriptPath, []byte(transcript), 0644); err != nil {
		return written, fmt.Errorf("saving transcript: %w", err)
	}
	written = append(written, transcriptPath)

	if summary == "" {
		return written, nil
	}
	summaryPath := filepath.Join(dir, SummaryFileName)
	if err := os.WriteFile(summaryPath, []byte(summary), 0644); err != nil {
		return written, fmt.Errorf("saving summary: %w", err)
	}
	return append(written, summaryPath), nil
}

// ValidateAPIKey checks that the key for backend is set and returns a standardized error if not
func ValidateAPIKey(backend, apiKey string) error {
	if apiKey != "" {
		return nil
	}
	switch backend {
	case BackendGroq:
		return fmt.Errorf("Groq API key is required - set it in config.toml or GROQ_API_KEY environment variable")
	case BackendOpenAI:
		return fmt.Errorf("OpenAI API key is required - set it in config.toml or OPENAI_API_KEY environment variable")
	case BackendGemini:
		return fmt.Errorf("Gemini API key is required - set it in config.toml or GEMINI_API_KEY environment variable")
	default:
		return fmt.Errorf("API key is required for backend %q", backend)
	}
}
