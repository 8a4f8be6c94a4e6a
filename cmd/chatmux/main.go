// Package main provides the chatmux CLI tool.
//
// Usage:
//
//	chatmux [flags] <command> [args]
//
// Commands:
//
//	chat     - Interactive chat TUI with side-channel commands
//	serve    - Run the generation backend
//	gen      - One-shot generation calls (image, task, ui)
//	config   - Configuration management
//
// Configuration:
//
//	The CLI stores configuration in ~/.chatmux/
//	Use 'chatmux config' commands to manage contexts.
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/chatmux/cmd/chatmux/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
