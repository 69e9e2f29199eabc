// Package logging builds the key/value logger shared by the HTTP surface,
// the simulator and the Temporal client and worker.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.temporal.io/sdk/log"
)

// New returns a Temporal SDK logger writing to w. format is "json" or "text".
func New(w io.Writer, level, format string) (log.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		h = slog.NewJSONHandler(w, opts)
	case "text":
		h = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return log.NewStructuredLogger(slog.New(h)), nil
}

// Nop discards everything.
func Nop() log.Logger {
	return log.NewStructuredLogger(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1})))
}

// Ensure returns l, or Nop when l is nil.
func Ensure(l log.Logger) log.Logger {
	if l != nil {
		return l
	}
	return Nop()
}
