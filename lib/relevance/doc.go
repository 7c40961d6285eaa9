// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package relevance scores documents against a query in a fitted
// vector space and decides which of them to keep.
//
// [Score] computes cosine similarity between one query vector and each
// document vector. [Select] applies a [SelectionConfig]: either a
// similarity threshold (inclusive) or a fixed number of top-ranked
// documents, with ties kept in their original order.
//
// Selection configuration arrives from JSON as {"type": ..., "value":
// ...}. [ParseSelectionConfig] validates it up front; an unknown type
// is a configuration error rather than an empty selection.
package relevance
