package main

import (
	"os"

	"github.com/canonic-tools/canonic/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
