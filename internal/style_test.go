package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSummaryStyle(t *testing.T) {
	tests := []struct {
		input string
		want  SummaryStyle
	}{
		{"short", StyleShort},
		{"DETAILED", StyleDetailed},
		{" study ", StyleStudy},
		{"Job interview takeaways", StyleInterview},
		{"executive brief", StyleExecutive},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSummaryStyle(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSummaryStyleUnknown(t *testing.T) {
	_, err := ParseSummaryStyle("haiku")
	require.ErrorIs(t, err, ErrUnknownStyle)
	assert.Contains(t, err.Error(), "short, detailed, study, interview, executive")
}

func TestSummaryStylesRoundTrip(t *testing.T) {
	styles := SummaryStyles()
	require.Len(t, styles, 5)
	for _, style := range styles {
		assert.NotEmpty(t, style.Instruction())
		parsed, err := ParseSummaryStyle(style.Key())
		require.NoError(t, err)
		assert.Equal(t, style, parsed)
		parsed, err = ParseSummaryStyle(style.String())
		require.NoError(t, err)
		assert.Equal(t, style, parsed)
	}
	assert.Equal(t, "Short & crisp", StyleShort.String())
	assert.Equal(t, "style(9)", SummaryStyle(9).Key())
	assert.Empty(t, SummaryStyle(-1).Instruction())
}
