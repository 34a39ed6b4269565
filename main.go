// SPDX-License-Identifier: MIT
package main

import (
	"os"

	"tempo/cmd"
	"tempo/internal/log"
	"tempo/pkg/build"
)

// main resolves the build information and hands the command line to cobra.
// Subcommands that touch audio hardware initialize PortAudio themselves.
func main() {
	// Initialize build information including version, commit hash, and build time
	if err := build.Initialize(); err != nil {
		log.Fatalf("%v", err)
	}

	if err := cmd.Execute(os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}
}
