package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rtzll/clip2text/internal"
)

// stylesCmd represents the styles command
var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the available summary styles",
	Example: `  # Show style keys and names
  clip2text styles

  # Include the instructions sent to the model
  clip2text styles -v`,
	Run: func(cmd *cobra.Command, args []string) {
		for _, style := range internal.SummaryStyles() {
			marker := " "
			if strings.EqualFold(style.Key(), config.SummaryStyle) {
				marker = "*"
			}
			fmt.Printf("%s %-10s %s\n", marker, style.Key(), style)
			if config.Verbose {
				for line := range strings.SplitSeq(style.Instruction(), "\n") {
					fmt.Printf("      %s\n", line)
				}
				fmt.Println()
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(stylesCmd)
}
