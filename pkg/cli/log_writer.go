package cli

import (
	"strings"
	"sync"
)

// LogWriter implements io.Writer and captures log output for TUI display.
// While the TUI owns the terminal, slog output is redirected here instead
// of stderr. A bounded window of the most recent lines is kept.
type LogWriter struct {
	mu       sync.Mutex
	lines    []string
	maxLines int
}

// NewLogWriter creates a new log writer keeping at most maxLines lines.
func NewLogWriter(maxLines int) *LogWriter {
	if maxLines <= 0 {
		maxLines = 100
	}
	return &LogWriter{maxLines: maxLines}
}

// Write implements io.Writer.
// Handles multi-line input by splitting on newlines.
func (w *LogWriter) Write(p []byte) (n int, err error) {
	text := strings.TrimRight(string(p), "\n")

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, line := range strings.Split(text, "\n") {
		w.lines = append(w.lines, line)
	}
	if over := len(w.lines) - w.maxLines; over > 0 {
		w.lines = append(w.lines[:0], w.lines[over:]...)
	}
	return len(p), nil
}

// Lines returns a copy of the buffered lines, oldest first.
func (w *LogWriter) Lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.lines))
	copy(out, w.lines)
	return out
}
