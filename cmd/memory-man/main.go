package main

import (
	"os"

	"github.com/beano/memory-man/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
