package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App, version string, logger *slog.Logger) *MCPServer {
	mcpServer := server.NewMCPServer(
		"clip2text-server",
		version,
		server.WithToolCapabilities(true),
	)

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
		logger:    logger,
	}

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_video_captions",
		mcp.WithDescription("List the caption tracks of a YouTube video (manual and auto-generated, per language) and the track that would be used for its transcript. Use this to check whether a transcript can be produced."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or 11 character video ID"),
			mcp.Required(),
		),
		mcp.WithString("language",
			mcp.Description("Preferred caption language code, e.g. en"),
		),
	), s.handleGetCaptions)

	s.mcpServer.AddTool(mcp.NewTool("get_video_transcript",
		mcp.WithDescription("Get the cleaned transcript of a YouTube video from its captions. Timing cues, annotations like [Music] and repeated lines are removed. Fails if the video has no captions."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or 11 character video ID"),
			mcp.Required(),
		),
		mcp.WithString("language",
			mcp.Description("Preferred caption language code, e.g. en"),
		),
	), s.handleGetTranscript)

	styleKeys := make([]string, 0, len(SummaryStyles()))
	for _, style := range SummaryStyles() {
		styleKeys = append(styleKeys, style.Key())
	}
	s.mcpServer.AddTool(mcp.NewTool("summarize_video",
		mcp.WithDescription("Summarize a YouTube video from its captions. Long transcripts are summarized in parts. Requires the API key of the configured backend."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or 11 character video ID"),
			mcp.Required(),
		),
		mcp.WithString("style",
			mcp.Description("Summary style"),
			mcp.Enum(styleKeys...),
		),
		mcp.WithString("language",
			mcp.Description("Preferred caption language code, e.g. en"),
		),
	), s.handleSummarize)
}

// appFor applies the optional per-call arguments
func (s *MCPServer) appFor(request mcp.CallToolRequest) (*App, string, error) {
	arg, err := request.RequireString("url")
	if err != nil {
		return nil, "", fmt.Errorf("url parameter is required and must be a string")
	}
	videoURL, _, err := ParseArg(arg)
	if err != nil {
		return nil, "", err
	}
	app, err := s.app.Override(request.GetString("language", ""), request.GetString("style", ""))
	if err != nil {
		return nil, "", err
	}
	return app, videoURL, nil
}

// handleGetCaptions implements the get_video_captions tool
func (s *MCPServer) handleGetCaptions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	app, videoURL, err := s.appFor(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.logger.Info("get_video_captions", slog.String("url", videoURL))

	report, err := app.Captions(ctx, videoURL)
	if err != nil {
		s.logger.Error("get_video_captions failed", slog.String("url", videoURL), slog.Any("error", err))
		return mcp.NewToolResultErrorFromErr("caption lookup failed", err), nil
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return mcp.NewToolResultErrorFromErr("encoding caption report", err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleGetTranscript implements the get_video_transcript tool
func (s *MCPServer) handleGetTranscript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	app, videoURL, err := s.appFor(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.logger.Info("get_video_transcript", slog.String("url", videoURL))

	transcript, err := app.Transcript(ctx, videoURL)
	if err != nil {
		s.logger.Error("get_video_transcript failed", slog.String("url", videoURL), slog.Any("error", err))
		return mcp.NewToolResultErrorFromErr("could not get transcript", err), nil
	}

	s.logger.Debug("transcript ready", slog.Int("lines", len(transcript.Lines)))
	return mcp.NewToolResultText(transcript.Text()), nil
}

// handleSummarize implements the summarize_video tool
func (s *MCPServer) handleSummarize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	app, videoURL, err := s.appFor(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.logger.Info("summarize_video", slog.String("url", videoURL), slog.String("style", app.style.Key()))

	result, err := app.SummarizeWithObserver(ctx, videoURL, nil)
	if err != nil {
		s.logger.Error("summarize_video failed", slog.String("url", videoURL),
			slog.String("stage", string(result.FailedStage)), slog.Any("error", err))
		return mcp.NewToolResultErrorFromErr("summarization failed", err), nil
	}

	var buf strings.Builder
	buf.WriteString(app.Report(result))
	buf.WriteString("\n")
	buf.WriteString(result.Summary)
	return mcp.NewToolResultText(buf.String()), nil
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	s.logger.Info("starting MCP server", slog.String("transport", transport))
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httpServer.Start(addr)
	}

	return server.ServeStdio(s.mcpServer)
}
