// Package cli provides common utilities for the chatmux command-line tool.
//
// This package includes:
//   - Configuration management (contexts with provider credentials)
//   - Output formatting (JSON, YAML, raw)
//   - Request file loading (YAML/JSON)
//
// Configuration is stored in ~/.chatmux/config.yaml, supporting multiple
// contexts similar to kubectl.
//
// Example usage:
//
//	cfg, err := cli.LoadConfig()
//
//	// Get current context
//	ctx, err := cfg.GetCurrentContext()
//
//	// Output result
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    File:   outputPath,
//	})
package cli
