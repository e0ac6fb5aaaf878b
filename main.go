package main

import (
	"os"

	"github.com/Attamusc/pipelinebot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
