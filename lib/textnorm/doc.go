// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package textnorm turns raw article text into the canonical form used
// for keyword matching and vector-space scoring.
//
// [Normalizer.Normalize] lemmatizes with an injected [langmodel.Model],
// drops stop-words and punctuation, removes digits, collapses
// whitespace and discards single-character tokens. The result is
// idempotent: normalizing already-normalized text returns it unchanged.
//
// [Normalizer.Clean] is a lighter transform for display and export: it
// keeps case and ordinary punctuation and only strips unusual
// characters. The two modes are not interchangeable.
package textnorm
