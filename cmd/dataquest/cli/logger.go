// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates a structured logger for CLI command
// operations at the given level. When stderr is a terminal it uses
// slog.TextHandler for human-readable output; when stderr is piped or
// redirected it uses slog.JSONHandler for machine-parseable output.
//
// Callers scope the logger with command-specific context via With():
//
//	logger := cli.NewCommandLogger(level).With("command", "select")
func NewCommandLogger(level slog.Level) *slog.Logger {
	return NewLogger(os.Stderr, level, IsTerminal(os.Stderr))
}

// NewLogger creates a logger writing to w, as text when human is true
// and as JSON otherwise.
func NewLogger(w io.Writer, level slog.Level, human bool) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	if human {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
