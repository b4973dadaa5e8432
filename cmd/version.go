package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	version = "dev" // set with -ldflags "-X github.com/rtzll/clip2text/cmd.version=..."
	commit  = ""
	date    = ""
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Example: `  # Show version information
  clip2text version`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(versionString())
	},
}

// versionString falls back to the VCS stamp of the build when no ldflags were given
func versionString() string {
	rev, built := commit, date
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch {
			case setting.Key == "vcs.revision" && rev == "":
				rev = setting.Value
			case setting.Key == "vcs.time" && built == "":
				built = setting.Value
			}
		}
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}

	s := "clip2text v" + version
	if rev != "" {
		s += " (commit " + rev
		if built != "" {
			s += ", built " + built
		}
		s += ")"
	}
	return s
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
