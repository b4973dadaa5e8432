package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rtzll/clip2text/internal"
)

// pathsCmd represents the paths command
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show paths used by the application",
	Example: `  # Show all application paths
  clip2text paths`,
	Run: func(cmd *cobra.Command, args []string) {
		configFile := config.ConfigFileUsed()
		if configFile == "" {
			configFile = "(none, using defaults)"
		}
		fmt.Printf("Config file: %s\n", configFile)
		fmt.Printf("Prompt template: %s\n", filepath.Join(config.ConfigDir, "prompt.txt"))
		fmt.Printf("Config directory: %s\n", config.ConfigDir)
		fmt.Printf("Data directory: %s\n", config.DataDir)
		fmt.Printf("Cache directory: %s\n", config.CacheDir)
		fmt.Printf("Output directory: %s\n", config.OutputDir)
		fmt.Printf("MCP log: %s\n", internal.MCPLogPath())
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
