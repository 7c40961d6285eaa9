// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package vsm implements a TF-IDF vector-space model over a document
// collection.
//
// A [Space] is fitted once on a collection: the vocabulary and the
// inverse document frequencies come from those documents only, with no
// external corpus. [Space.Transform] then projects any text, including
// a keyword query, into a sparse [Vector] over that vocabulary. Terms
// the fitted vocabulary does not contain are ignored.
//
// Tokenization goes through the injected [langmodel.Model] so that
// documents and queries are analyzed identically: lemmatized,
// lower-cased, without stop-words or punctuation. Terms are n-grams of
// those lemmas, optionally Snowball-stemmed first.
//
// IDF uses the smoothed form ln((1+n)/(1+df)) + 1. The fitted state is
// immutable and published atomically, so any number of goroutines may
// call Transform concurrently. Transform before Fit returns
// [ErrNotFitted].
package vsm
