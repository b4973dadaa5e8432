package main

import (
	"os"

	"github.com/rtzll/clip2text/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
