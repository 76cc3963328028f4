// Package main provides the CLI for the epiprofile dashboard.
package main

import (
	"os"

	"github.com/leapstack-labs/epiprofile/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
