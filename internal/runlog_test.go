package internal

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLogEvictsOldest(t *testing.T) {
	log := NewRunLog(3)
	assert.Empty(t, log.Lines())

	for i := 1; i <= 5; i++ {
		log.Add(fmt.Sprintf("line %d", i))
	}
	assert.Equal(t, []string{"line 3", "line 4", "line 5"}, log.Lines())
	assert.Equal(t, []string{"line 4", "line 5"}, log.Tail(2))
	assert.Equal(t, "line 3\nline 4\nline 5", log.String())
}

func TestRunLogPartiallyFilled(t *testing.T) {
	log := NewRunLog(0)
	log.Add("only")
	assert.Equal(t, []string{"only"}, log.Lines())
	assert.Equal(t, []string{"only"}, log.Tail(10))
}

func TestRunLogHandler(t *testing.T) {
	var console bytes.Buffer
	log := NewRunLog(10)
	next := slog.NewTextHandler(&console, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger := slog.New(newRunLogHandler(log, next))

	logger.Debug("hidden everywhere")
	logger.Info("Selected captions", slog.String("language", "en"))
	logger.With(slog.String("run", "r1")).WithGroup("fetch").Warn("rate-limited", slog.Int("attempt", 2))

	lines := log.Lines()
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], " Selected captions language=en"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], " WARN rate-limited run=r1 fetch.attempt=2"), lines[1])

	// the console handler only sees what its level allows
	assert.NotContains(t, console.String(), "Selected captions")
	assert.Contains(t, console.String(), "rate-limited")
	assert.Contains(t, console.String(), "fetch.attempt=2")
}

func TestRunResultLogTail(t *testing.T) {
	var result *RunResult
	assert.Nil(t, result.LogTail(5))

	result = &RunResult{Log: []string{"a", "b", "c"}}
	assert.Equal(t, []string{"b", "c"}, result.LogTail(2))
	assert.Equal(t, []string{"a", "b", "c"}, result.LogTail(10))
}
