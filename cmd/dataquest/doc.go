// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Dataquest is the command-line entry point for the archive curation
// workflow: categorize, select, export, plus model and text
// utilities. The command tree is built by package commands.
package main
