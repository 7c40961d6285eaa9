// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package curate runs the article relevance pipeline over one
// manifest: it decides which referenced articles match a keyword
// research interest.
//
// A run proceeds in two phases separated by a barrier:
//
//  1. Per row, in a bounded worker pool: read the article from its
//     archive, normalize the title, and either accept the row at once
//     because its title contains a keyword, or normalize the body for
//     scoring. Rows whose archive cannot be read are recorded as
//     failures and take no further part.
//  2. Once every row is done: fit a TF-IDF space on the normalized
//     bodies, project the space-joined keywords as a query, score each
//     body by cosine similarity, and apply the selection rule.
//
// The selected set is the union of the title matches and the rows the
// selection rule picked, expressed as manifest indices. Worker results
// land in slots indexed by row position, so completion order never
// affects the outcome.
//
// Configuration problems (no usable keywords, an invalid selection
// rule) reject the run before any article is read. Per-article
// problems never fail the run.
package curate
