package internal

import (
	"fmt"
	"strings"
)

// SummaryStyle is one of the fixed summary presets
type SummaryStyle int

const (
	StyleShort SummaryStyle = iota
	StyleDetailed
	StyleStudy
	StyleInterview
	StyleExecutive
)

type stylePreset struct {
	key         string
	name        string
	instruction string
}

var stylePresets = [...]stylePreset{
	StyleShort: {
		key:  "short",
		name: "Short & crisp",
		instruction: `Write a very short summary.
Rules:
- MAX 6 lines total
- MAX 5 bullet key points
- MAX 3 takeaways
- Keep it punchy & simple.`,
	},
	StyleDetailed: {
		key:  "detailed",
		name: "Detailed notes",
		instruction: `Write detailed structured notes.
Rules:
- Use headings and subpoints
- Explain important examples
- Include a mini conclusion at end
- Make it longer and richer than normal.`,
	},
	StyleStudy: {
		key:  "study",
		name: "Study notes (structured)",
		instruction: `Create study notes for students.
Rules:
- Use sections: Overview, Concepts, Definitions, Examples, Common Mistakes, Quick Revision
- Add 5 practice questions at end (with short answers).`,
	},
	StyleInterview: {
		key:  "interview",
		name: "Job interview takeaways",
		instruction: `Write output for job interview preparation.
Rules:
- Extract skills, tools, frameworks mentioned
- Add 7 interview questions based on content
- Provide STAR-format answers (short)`,
	},
	StyleExecutive: {
		key:  "executive",
		name: "Executive brief",
		instruction: `Write like an executive briefing memo.
Rules:
- Start with Decision Summary (3 bullet)
- Key Insights (5 bullet)
- Risks & Assumptions
- Recommendations (actionable)
- Keep tone professional.`,
	},
}

// SummaryStyles returns every preset in display order
func SummaryStyles() []SummaryStyle {
	styles := make([]SummaryStyle, len(stylePresets))
	for i := range stylePresets {
		styles[i] = SummaryStyle(i)
	}
	return styles
}

func (s SummaryStyle) valid() bool {
	return s >= 0 && int(s) < len(stylePresets)
}

// Key is the identifier used in config files and flags
func (s SummaryStyle) Key() string {
	if !s.valid() {
		return fmt.Sprintf("style(%d)", int(s))
	}
	return stylePresets[s].key
}

// String returns the display name of the style
func (s SummaryStyle) String() string {
	if !s.valid() {
		return fmt.Sprintf("style(%d)", int(s))
	}
	return stylePresets[s].name
}

// Instruction returns the rules the backend must follow for this style
func (s SummaryStyle) Instruction() string {
	if !s.valid() {
		return ""
	}
	return stylePresets[s].instruction
}

// ParseSummaryStyle accepts a style key or display name, case-insensitively
func ParseSummaryStyle(s string) (SummaryStyle, error) {
	needle := strings.TrimSpace(s)
	for i, p := range stylePresets {
		if strings.EqualFold(needle, p.key) || strings.EqualFold(needle, p.name) {
			return SummaryStyle(i), nil
		}
	}
	keys := make([]string, len(stylePresets))
	for i, p := range stylePresets {
		keys[i] = p.key
	}
	return 0, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownStyle, s, strings.Join(keys, ", "))
}
