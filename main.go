package main

import (
	"os"

	"github.com/codescope-ai/codescope/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
