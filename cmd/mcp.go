package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/rtzll/clip2text/internal"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run minimal MCP server for clip2text",
	Long: `Run a Model Context Protocol (MCP) server that exposes clip2text functionality as tools.

The MCP server provides three tools:
- get_video_captions: List caption tracks and the track a transcript would use
- get_video_transcript: Cleaned transcript from YouTube captions
- summarize_video: Summary of a video in one of the summary styles

This allows AI assistants to use clip2text capabilities through the MCP protocol.

Transport options:
- stdio (default): Standard MCP transport via stdin/stdout
- http: HTTP transport on specified port (use --port to configure)

Set mcp_log_enabled = true in config.toml to log tool calls to the MCP log
(see clip2text paths).`,
	Example: `  # Run MCP server with stdio transport (e.g. for Claude Desktop)
  clip2text mcp

  # Run MCP server with HTTP transport on port 8080
  clip2text mcp --transport=http --port=8080

  # Set up Claude Desktop integration
  clip2text mcp setup-claude`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// stdout belongs to the protocol, no progress bars or reports
		config.Verbose = false
		config.Quiet = true
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		logger, closeLog := internal.NewMCPLogger(config.MCPLogEnabled)
		defer func() { _ = closeLog() }()

		app, err := internal.NewApp(config, internal.WithAppLogger(logger))
		if err != nil {
			return err
		}

		mcpServer := internal.NewMCPServer(app, version, logger)

		// blocks until stdin closes or the HTTP server stops
		return mcpServer.Start(cmd.Context(), transport, port)
	},
}

// setupClaudeCmd registers the server in Claude Desktop
var setupClaudeCmd = &cobra.Command{
	Use:   "setup-claude",
	Short: "Configure Claude Desktop to use the clip2text MCP server",
	Long: `Register clip2text as an MCP server in Claude Desktop's claude_desktop_config.json.

Other configured servers are left as they are. The entry points at the current
binary and passes the XDG base directories, so the server reads the same
config.toml and writes to the same cache as the CLI.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := claudeDesktopConfigPath(runtime.GOOS)
		if err != nil {
			return fmt.Errorf("locating Claude Desktop config: %w", err)
		}
		if err := setupClaudeDesktop(configPath); err != nil {
			return err
		}
		fmt.Printf("Registered the clip2text MCP server in %s\n", configPath)
		fmt.Println("Restart Claude Desktop to pick it up")
		return nil
	},
}

// desktopServer is one entry of the mcpServers object
type desktopServer struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env,omitempty"`
}

// setupClaudeDesktop adds or replaces the clip2text entry in an existing Claude Desktop config
func setupClaudeDesktop(configPath string) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("getting executable path: %w", err)
	}
	if execPath, err = filepath.EvalSymlinks(execPath); err != nil {
		return fmt.Errorf("resolving executable path: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("no Claude Desktop config at %s, start Claude Desktop once first", configPath)
	}
	if err != nil {
		return fmt.Errorf("reading Claude Desktop config: %w", err)
	}

	updated, err := addDesktopServer(data, "clip2text", desktopServer{
		Command: execPath,
		Args:    []string{"mcp"},
		Env: map[string]string{
			"XDG_CONFIG_HOME": xdg.ConfigHome,
			"XDG_DATA_HOME":   xdg.DataHome,
			"XDG_CACHE_HOME":  xdg.CacheHome,
		},
	})
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, updated, 0644)
}

// addDesktopServer sets mcpServers[name] and keeps every other key of the document
func addDesktopServer(data []byte, name string, entry desktopServer) ([]byte, error) {
	doc := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing Claude Desktop config: %w", err)
		}
	}

	servers := map[string]json.RawMessage{}
	if raw, ok := doc["mcpServers"]; ok {
		if err := json.Unmarshal(raw, &servers); err != nil {
			return nil, fmt.Errorf("parsing mcpServers: %w", err)
		}
	}

	encoded, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	servers[name] = encoded

	if doc["mcpServers"], err = json.Marshal(servers); err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// claudeDesktopConfigPath returns where Claude Desktop keeps its config on goos
func claudeDesktopConfigPath(goos string) (string, error) {
	const name = "claude_desktop_config.json"

	switch goos {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", errors.New("APPDATA environment variable not set")
		}
		return filepath.Join(appData, "Claude", name), nil
	case "darwin", "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if goos == "darwin" {
			return filepath.Join(home, "Library", "Application Support", "Claude", name), nil
		}
		return filepath.Join(home, ".config", "Claude", name), nil
	default:
		return "", fmt.Errorf("unsupported platform: %s", goos)
	}
}

func init() {
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol (stdio or http)")
	mcpCmd.Flags().Int("port", 8080, "Port for HTTP transport (only used with --transport=http)")
	mcpCmd.AddCommand(setupClaudeCmd)
	rootCmd.AddCommand(mcpCmd)
}
