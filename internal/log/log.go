// Package log builds the structured logger used for diagnostics.
// Report output goes to stdout; everything logged here goes to the
// writer passed to New, normally stderr.
package log

import (
	"io"
	"log/slog"
)

// New returns a text logger. Only warnings and errors are shown unless
// verbose is set, which enables debug output.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
