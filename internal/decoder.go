package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// json3 is YouTube's timed-text JSON encoding. Only the text is kept.
type json3Document struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	Segs []json3Segment `json:"segs"`
}

type json3Segment struct {
	UTF8 string `json:"utf8"`
}

// DecodeCaptions turns a raw caption payload into ordered caption lines.
//
// json3 payloads yield one line per event that has text. Every other format
// is split on newlines and non-blank lines are passed through as they are;
// stripping cues and headers is left to CleanTranscript.
func DecodeCaptions(payload []byte, format CaptionFormat) ([]string, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}
	if format == FormatJSON3 {
		return decodeJSON3(payload)
	}
	return splitLines(string(payload)), nil
}

func decodeJSON3(payload []byte) ([]string, error) {
	var doc json3Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: json3: %v", ErrMalformedCaptionPayload, err)
	}

	var lines []string
	var sb strings.Builder
	for _, event := range doc.Events {
		if len(event.Segs) == 0 {
			continue
		}
		sb.Reset()
		for _, seg := range event.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(strings.ReplaceAll(sb.String(), "\n", " "))
		if text != "" {
			lines = append(lines, text)
		}
	}
	return lines, nil
}

func splitLines(text string) []string {
	var lines []string
	for line := range strings.SplitSeq(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
