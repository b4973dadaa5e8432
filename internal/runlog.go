package internal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultLogLines is how many lines a RunLog keeps when no size is configured
const DefaultLogLines = 200

// RunLog keeps the most recent lines logged during one pipeline run
type RunLog struct {
	mu    sync.Mutex
	lines []string
	next  int
	full  bool
}

// NewRunLog creates a log holding at most size lines
func NewRunLog(size int) *RunLog {
	if size <= 0 {
		size = DefaultLogLines
	}
	return &RunLog{lines: make([]string, size)}
}

// Add appends a line, evicting the oldest one when the log is full
func (l *RunLog) Add(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines[l.next] = line
	l.next = (l.next + 1) % len(l.lines)
	if l.next == 0 {
		l.full = true
	}
}

// Lines returns the retained lines, oldest first
func (l *RunLog) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.full {
		return append([]string(nil), l.lines[:l.next]...)
	}
	out := make([]string, 0, len(l.lines))
	out = append(out, l.lines[l.next:]...)
	return append(out, l.lines[:l.next]...)
}

// Tail returns at most n of the most recent lines
func (l *RunLog) Tail(n int) []string {
	lines := l.Lines()
	if n >= 0 && len(lines) > n {
		return lines[len(lines)-n:]
	}
	return lines
}

// String renders the retained lines one per line
func (l *RunLog) String() string {
	return strings.Join(l.Lines(), "\n")
}

// runLogHandler copies every record into a RunLog before passing it on
type runLogHandler struct {
	log   *RunLog
	next  slog.Handler
	attrs []slog.Attr
	group string
}

func newRunLogHandler(log *RunLog, next slog.Handler) *runLogHandler {
	return &runLogHandler{log: log, next: next}
}

func (h *runLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	// the run log records info and up even when the console handler is quieter
	return level >= slog.LevelInfo || h.next.Enabled(ctx, level)
}

func (h *runLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelInfo {
		h.log.Add(h.format(r))
	}
	if h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *runLogHandler) format(r slog.Record) string {
	var sb strings.Builder
	sb.WriteString(r.Time.Format(time.TimeOnly))
	if r.Level >= slog.LevelWarn {
		fmt.Fprintf(&sb, " %s", r.Level)
	}
	sb.WriteString(" ")
	sb.WriteString(r.Message)

	for _, a := range h.attrs {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", h.qualify(a.Key), a.Value)
		return true
	})
	return sb.String()
}

func (h *runLogHandler) qualify(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}

func (h *runLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, slog.Attr{Key: h.qualify(a.Key), Value: a.Value})
	}
	clone.next = h.next.WithAttrs(attrs)
	return &clone
}

func (h *runLogHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	clone.next = h.next.WithGroup(name)
	return &clone
}
