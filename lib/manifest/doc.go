// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest reads and writes the CSV files that carry article
// references between pipeline steps.
//
// A manifest lists (file_path, article_id) pairs, one per row. Row
// order defines the index space used by relevance selection, so a
// [Table] preserves it exactly along with any extra columns. After
// selection, [Table.SetSelected] records the outcome in a "selected"
// column of 1s and 0s.
//
// Period bucket files (articles_<period>.csv) are built incrementally
// by [AppendRow] during categorization, and [WriteLabelSet] writes the
// final articles_to_label.csv export.
package manifest
