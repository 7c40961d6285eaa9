// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package langmodel

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// TokenKind classifies a token.
type TokenKind uint8

const (
	// Word is a run of letters, including combining marks.
	Word TokenKind = iota

	// Number is a run of numeric characters.
	Number

	// Punct is a single rune that is neither a letter, a number nor
	// whitespace: punctuation, symbols, stray combining marks.
	Punct
)

// String returns the lower-case name of the kind.
func (k TokenKind) String() string {
	switch k {
	case Word:
		return "word"
	case Number:
		return "number"
	case Punct:
		return "punct"
	default:
		return "unknown"
	}
}

// Token is one unit of tokenized text. Text keeps the original case.
type Token struct {
	Text string
	Kind TokenKind
}

// tokenPattern splits letters from numbers ("2nd" becomes "2", "nd")
// and emits every other non-space rune as its own token. Splitting at
// letter/number boundaries means digit removal never leaves a
// different word behind for a later pass to re-lemmatize.
var tokenPattern = regexp.MustCompile(`\p{L}[\p{L}\p{M}]*|\p{N}+|[^\s\p{L}\p{N}]`)

// Tokenize splits text into tokens after NFC normalization.
func Tokenize(text string) []Token {
	text = norm.NFC.String(text)
	matches := tokenPattern.FindAllString(text, -1)
	tokens := make([]Token, 0, len(matches))
	for _, match := range matches {
		tokens = append(tokens, Token{Text: match, Kind: classify(match)})
	}
	return tokens
}

func classify(match string) TokenKind {
	first, _ := utf8.DecodeRuneInString(match)
	switch {
	case unicode.IsLetter(first):
		return Word
	case unicode.IsNumber(first):
		return Number
	default:
		return Punct
	}
}
