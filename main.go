// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for the gadget CLI.
//
// Usage:
//
//	go run . [flags]
//	./gadget [flags]
//
// This launches the gadget CLI. See --help for options.
package main

import (
	"log"
	"os"

	"github.com/tanglekit/tangle-cli/ui/cli"
)

// main is the entrypoint for the gadget CLI.
func main() {
	if err := cli.Execute(); err != nil {
		log.Printf("gadget error: %v", err)
		os.Exit(1)
	}
}
