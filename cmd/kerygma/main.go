// Package main provides the kerygma command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/kerygma/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
