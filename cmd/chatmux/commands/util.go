package commands

import (
	"time"

	"github.com/haivivi/chatmux/pkg/cli"
	"github.com/haivivi/chatmux/pkg/sidechan"
)

// loadRequest loads a request from a YAML or JSON file
func loadRequest(path string, v any) error {
	return cli.LoadRequest(path, v)
}

// outputBytes outputs binary data to a file
func outputBytes(data []byte, outputPath string) error {
	return cli.OutputBytes(data, outputPath)
}

// printSuccess prints a success message
func printSuccess(format string, args ...any) {
	cli.PrintSuccess(format, args...)
}

// createClient creates a side-channel client from context configuration
func createClient(ctx *cli.Context) *sidechan.Client {
	var opts []sidechan.Option

	if ctx.BackendURL != "" {
		opts = append(opts, sidechan.WithBaseURL(ctx.BackendURL))
	}
	if ctx.Timeout > 0 {
		opts = append(opts, sidechan.WithTimeout(time.Duration(ctx.Timeout)*time.Second))
	}

	return sidechan.NewClient(opts...)
}
