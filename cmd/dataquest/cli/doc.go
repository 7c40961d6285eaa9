// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the dataquest
// CLI.
//
// The central type is [Command], which represents a named subcommand
// with optional nested [Command.Subcommands], a flag set built from a
// tagged params struct (see [BindFlags]), and a Run function.
// Commands are assembled into a tree in cmd/dataquest/commands and
// dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match (threshold: distance <= 3).
//
// Output helpers:
//
//   - [JSONOutput] adds a --json flag and [JSONOutput.EmitJSON]
//   - [NewCommandLogger] picks a text or JSON slog handler depending
//     on whether stderr is a terminal
//   - [Progress] draws a progress bar on terminals and stays silent
//     otherwise
//   - [Heading] and [Field] style human-readable summaries
//
// [ExitError] lets a command choose its exit code without an extra
// error line.
package cli
