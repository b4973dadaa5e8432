package internal

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

type loggerKey struct{}

// NewLogger creates the console logger: debug when verbose, warnings only otherwise
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewMCPLogger returns a JSON logger writing to the MCP log file.
// A disabled or unwritable log yields a logger that discards everything.
func NewMCPLogger(enabled bool) (*slog.Logger, func() error) {
	discard := slog.New(slog.DiscardHandler)
	noop := func() error { return nil }
	if !enabled {
		return discard, noop
	}

	logPath := MCPLogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return discard, noop
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return discard, noop
	}

	handler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler).With(slog.String("component", "mcp")), logFile.Close
}

// MCPLogPath is where the MCP server writes its log
func MCPLogPath() string {
	return filepath.Join(xdg.CacheHome, appName, "mcp.log")
}

// WithLogger attaches a logger to ctx
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFrom returns the logger attached to ctx, or slog.Default
func LoggerFrom(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}
