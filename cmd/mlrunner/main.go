package main

import (
	"os"

	"mlrunner/internal/cli"
	"mlrunner/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		cli.Failf("%v", err)
		os.Exit(1)
	}
}
