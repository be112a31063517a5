// Package main provides the entry point for the wnexport CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/wnexport/cmd/wnexport/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
