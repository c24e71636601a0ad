// Package main is the entry point for the lintbridge CLI.
package main

import (
	"os"

	"github.com/dshills/lintbridge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
