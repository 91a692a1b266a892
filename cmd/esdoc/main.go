// Package main provides the entry point for the esdoc CLI.
package main

import (
	"os"

	"github.com/veloq/esgo/cmd/esdoc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
