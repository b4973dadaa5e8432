package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanTranscript(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "vtt cues and header",
			lines: []string{"WEBVTT", "Kind: captions", "00:00:00.000 --> 00:00:02.000", "hello there", "00:00:02.000 --> 00:00:04.000", "general"},
			want:  []string{"Kind: captions", "hello there", "general"},
		},
		{
			name:  "annotations dropped",
			lines: []string{"[Music]", "intro", "[Applause]", "[]"},
			want:  []string{"intro"},
		},
		{
			name:  "inline brackets kept",
			lines: []string{"[Music] plays softly", "we use a[i] here"},
			want:  []string{"[Music] plays softly", "we use a[i] here"},
		},
		{
			name:  "consecutive repeats collapsed",
			lines: []string{"same", "same", " same ", "other", "same"},
			want:  []string{"same", "other", "same"},
		},
		{
			name:  "repeats across removed lines collapse",
			lines: []string{"line", "", "[Music]", "line"},
			want:  []string{"line"},
		},
		{
			name:  "only noise",
			lines: []string{"", "  ", "[Music]", "00:00.000 --> 00:01.000"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTranscript(tt.lines))
		})
	}
}

func TestCleanTranscriptInvariants(t *testing.T) {
	input := []string{
		"WEBVTT", "", "00:00:00.000 --> 00:00:01.000", "  hi  ", "hi",
		"[Laughter]", "there", "there", "00:00:01.000 --> 00:00:02.000", "hi",
	}

	cleaned := CleanTranscript(input)
	require.NotEmpty(t, cleaned)
	for i, line := range cleaned {
		assert.NotEmpty(t, line)
		assert.Equal(t, strings.TrimSpace(line), line)
		assert.NotContains(t, line, "-->")
		assert.False(t, strings.HasPrefix(line, "WEBVTT"))
		assert.False(t, annotationRe.MatchString(line))
		if i > 0 {
			assert.NotEqual(t, cleaned[i-1], line)
		}
	}
	assert.Equal(t, cleaned, CleanTranscript(cleaned))
}

func TestDecodeThenClean(t *testing.T) {
	payload := []byte(`{"events":[
		{"segs":[{"utf8":"[Music]"}]},
		{"segs":[{"utf8":"welcome back"}]},
		{"segs":[{"utf8":"welcome back"}]},
		{"segs":[{"utf8":"today we "},{"utf8":"talk about Go"}]}
	]}`)

	lines, err := DecodeCaptions(payload, FormatJSON3)
	require.NoError(t, err)
	assert.Equal(t, "welcome back\ntoday we talk about Go", JoinTranscript(CleanTranscript(lines)))
}
