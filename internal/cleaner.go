package internal

import (
	"regexp"
	"strings"
)

// annotationRe matches a line that is a single bracketed annotation such as [Music]
var annotationRe = regexp.MustCompile(`^\[[^\]]*\]$`)

// CleanTranscript drops timing cues, WEBVTT headers, bracketed annotations and
// blank lines, then collapses consecutive repeats. Order is preserved and the
// result is stable under repeated cleaning.
func CleanTranscript(lines []string) []string {
	cleaned := make([]string, 0, len(lines))
	prev := ""

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(line, "-->") {
			continue
		}
		if strings.HasPrefix(line, "WEBVTT") {
			continue
		}
		if annotationRe.MatchString(line) {
			continue
		}
		if line == prev {
			continue
		}
		cleaned = append(cleaned, line)
		prev = line
	}

	return cleaned
}

// JoinTranscript renders cleaned lines as the plain-text transcript artifact
func JoinTranscript(lines []string) string {
	return strings.Join(lines, "\n")
}
