// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package relevance

import "github.com/dataquest-foundation/dataquest/lib/vsm"

// Cosine returns the cosine similarity of a and b. A zero vector on
// either side scores 0.
func Cosine(a, b vsm.Vector) float64 {
	normA := a.Norm2()
	normB := b.Norm2()
	if normA == 0 || normB == 0 {
		return 0
	}
	similarity := a.Dot(b) / (normA * normB)
	// Rounding can push parallel vectors slightly past 1.
	return min(max(similarity, -1), 1)
}

// Score returns the cosine similarity of query against each document,
// in document order.
func Score(query vsm.Vector, documents []vsm.Vector) []float64 {
	scores := make([]float64, len(documents))
	for i, document := range documents {
		scores[i] = Cosine(query, document)
	}
	return scores
}
