// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package textnorm

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dataquest-foundation/dataquest/lib/langmodel"
)

// Version identifies the rules Normalize and Clean apply. Change it
// whenever their output changes so cached normalizations are not reused.
const Version = "1"

var (
	digitPattern      = regexp.MustCompile(`\p{Nd}+`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	// nonStandardPattern matches every character Clean removes.
	nonStandardPattern = regexp.MustCompile(`[^-0-9\p{L}\p{N}_,. ?!()%/]`)
)

// Normalizer applies the normalization pipeline with a fixed model.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	model *langmodel.Model
}

// New returns a normalizer bound to model. A nil model is a wiring
// error at the composition root and panics.
func New(model *langmodel.Model) *Normalizer {
	if model == nil {
		panic("textnorm: New called with nil model")
	}
	return &Normalizer{model: model}
}

// Model returns the language model the normalizer was built with.
func (n *Normalizer) Model() *langmodel.Model {
	return n.model
}

// Normalize returns the canonical form of text: lower-cased lemmas
// without stop-words, punctuation, digits or single-character tokens,
// separated by single spaces.
func (n *Normalizer) Normalize(text string) string {
	joined := strings.Join(n.model.Lemmas(text), " ")
	joined = digitPattern.ReplaceAllString(joined, "")
	joined = collapseWhitespace(joined)

	fields := strings.Fields(joined)
	kept := fields[:0]
	for _, field := range fields {
		if utf8.RuneCountInString(field) > 1 {
			kept = append(kept, field)
		}
	}
	return strings.Join(kept, " ")
}

// NormalizeAll normalizes each element of texts.
func (n *Normalizer) NormalizeAll(texts []string) []string {
	normalized := make([]string, len(texts))
	for i, text := range texts {
		normalized[i] = n.Normalize(text)
	}
	return normalized
}

// Clean tokenizes text, keeping case, removes characters outside the
// standard set (letters, numbers, underscore and -,.?!()%/), and
// collapses whitespace.
func (n *Normalizer) Clean(text string) string {
	tokens := langmodel.Tokenize(text)
	parts := make([]string, len(tokens))
	for i, token := range tokens {
		parts[i] = token.Text
	}
	cleaned := nonStandardPattern.ReplaceAllString(strings.Join(parts, " "), "")
	return collapseWhitespace(cleaned)
}

func collapseWhitespace(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}
