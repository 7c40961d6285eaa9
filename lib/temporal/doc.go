// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package temporal buckets filtered-article documents by publication
// period.
//
// Each document is a small JSON file carrying the article reference
// and a mandatory "Date" field in YYYY-MM-DD form. [Categorize] maps a
// date to its year or to the first year of its decade. A document
// whose date is missing or malformed cannot be categorized: the error
// is returned to the caller, which logs and skips the file.
//
// [CategorizeFiles] parses many documents concurrently and returns
// their buckets in input order, so callers can append period rows
// sequentially without reordering.
package temporal
