// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package export implements "dataquest export", which gathers the
// selected rows of every manifest into a single CSV for manual
// labeling. The research interest's output_unit decides whether each
// article or each of its paragraphs becomes a row.
package export
