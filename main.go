package main

import (
	"os"

	"github.com/mbolis/quick-forms/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
