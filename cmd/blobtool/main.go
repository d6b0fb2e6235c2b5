// Package main provides the blobtool CLI.
package main

import (
	"os"

	"github.com/born-ml/blob/cmd/blobtool/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
