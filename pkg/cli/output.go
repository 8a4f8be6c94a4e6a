package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// OutputFormat selects how a generation result is encoded.
type OutputFormat string

const (
	FormatYAML OutputFormat = "yaml" // terminal default
	FormatJSON OutputFormat = "json" // for piping
	FormatRaw  OutputFormat = "raw"  // strings and byte slices untouched
)

// OutputOptions selects where and how a result is written.
type OutputOptions struct {
	Format OutputFormat

	// File receives the output instead of stdout when set.
	File string

	// Writer overrides File and stdout when set.
	Writer io.Writer

	// Indent is the JSON indent string, two spaces when empty.
	Indent string
}

// Output writes result in the selected format. Raw passes strings and
// byte slices through untouched and falls back to YAML for anything else.
func Output(result any, opts OutputOptions) error {
	w := io.Writer(os.Stdout)
	switch {
	case opts.Writer != nil:
		w = opts.Writer
	case opts.File != "":
		f, err := os.Create(opts.File)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch opts.Format {
	case FormatJSON:
		indent := opts.Indent
		if indent == "" {
			indent = "  "
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", indent)
		return enc.Encode(result)
	case FormatRaw:
		switch v := result.(type) {
		case []byte:
			_, err := w.Write(v)
			return err
		case string:
			_, err := io.WriteString(w, v)
			return err
		}
		return encodeYAML(w, result)
	case FormatYAML, "":
		return encodeYAML(w, result)
	default:
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}
}

func encodeYAML(w io.Writer, result any) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// OutputBytes writes binary data to a file. Binary never goes to stdout,
// so the path is mandatory.
func OutputBytes(data []byte, path string) error {
	if path == "" {
		return fmt.Errorf("an output file path is required for binary data")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// PrintSuccess prints a checkmarked status message to stdout.
func PrintSuccess(format string, args ...any) {
	fmt.Printf("✓ "+format+"\n", args...)
}

// PrintVerbose prints to stderr when verbose mode is on, keeping stdout
// clean for pipeable output.
func PrintVerbose(verbose bool, format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}
