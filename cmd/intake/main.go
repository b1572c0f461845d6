package main

import (
	"os"

	"github.com/deepnoodle-ai/intake/cmd/intake/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
