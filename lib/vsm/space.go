// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package vsm

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/kljensen/snowball/english"

	"github.com/dataquest-foundation/dataquest/lib/langmodel"
)

// ErrNotFitted is returned by Transform when Fit has not completed.
var ErrNotFitted = errors.New("vsm: transform called before fit")

// Norm selects per-vector normalization.
type Norm string

const (
	NormL1   Norm = "l1"
	NormL2   Norm = "l2"
	NormNone Norm = "none"
)

// ParseNorm accepts "l1", "l2", and "none" (also the empty string and
// "None", which older configuration files use).
func ParseNorm(value string) (Norm, error) {
	switch value {
	case "l1":
		return NormL1, nil
	case "l2":
		return NormL2, nil
	case "none", "None", "":
		return NormNone, nil
	default:
		return "", fmt.Errorf("vsm: unknown norm %q (want l1, l2 or none)", value)
	}
}

// Options configures a [Space]. The zero value is not valid; start from
// [DefaultOptions].
type Options struct {
	// NgramMax is the largest n-gram size. 1 means unigrams only.
	NgramMax int

	// Norm is the per-vector normalization.
	Norm Norm

	// SublinearTF replaces a raw term count tf with 1 + ln(tf).
	SublinearTF bool

	// MinDF is the minimum number of documents a term must occur in.
	// It is clamped to the collection size at fit time.
	MinDF int

	// MaxDF is the maximum fraction of documents a term may occur in.
	// It is raised to MinDF/n at fit time so the range is never empty.
	MaxDF float64

	// Stem applies the Snowball English stemmer to each lemma before
	// n-grams are formed.
	Stem bool
}

// DefaultOptions returns unigram, l1-normalized, raw-count options
// with no document frequency filtering.
func DefaultOptions() Options {
	return Options{
		NgramMax: 1,
		Norm:     NormL1,
		MinDF:    1,
		MaxDF:    1.0,
	}
}

// Validate reports every invalid option.
func (o Options) Validate() error {
	var errs []error
	if o.NgramMax < 1 {
		errs = append(errs, fmt.Errorf("ngram_max must be at least 1, got %d", o.NgramMax))
	}
	if _, err := ParseNorm(string(o.Norm)); err != nil {
		errs = append(errs, err)
	}
	if o.MinDF < 0 {
		errs = append(errs, fmt.Errorf("min_df must not be negative, got %d", o.MinDF))
	}
	if o.MaxDF < 0 || o.MaxDF > 1 || math.IsNaN(o.MaxDF) {
		errs = append(errs, fmt.Errorf("max_df must be a fraction in [0, 1], got %v", o.MaxDF))
	}
	if len(errs) > 0 {
		return fmt.Errorf("vsm: invalid options: %w", errors.Join(errs...))
	}
	return nil
}

// Space is a TF-IDF vector space. Fit it once, then Transform freely.
type Space struct {
	model   *langmodel.Model
	options Options

	fitted atomic.Pointer[fittedState]
}

// fittedState is immutable once published.
type fittedState struct {
	// vocabulary is sorted lexicographically; a term's position is
	// its vector index.
	vocabulary []string

	// index maps a term to its position in vocabulary.
	index map[string]int

	// idf[i] is the inverse document frequency of vocabulary[i].
	idf []float64

	documentCount int
}

// New returns an unfitted space. It rejects invalid options and a nil
// model.
func New(model *langmodel.Model, options Options) (*Space, error) {
	if model == nil {
		return nil, errors.New("vsm: model is required")
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}
	if options.Norm == "" || options.Norm == "None" {
		options.Norm = NormNone
	}
	return &Space{model: model, options: options}, nil
}

// Options returns the options the space was built with.
func (s *Space) Options() Options {
	return s.options
}

// Fit builds the vocabulary and IDF weights from documents. Fitting an
// empty collection, or one whose terms are all filtered out, yields an
// empty vocabulary. Fit may be called again to replace the fitted
// state.
func (s *Space) Fit(documents []string) error {
	count := len(documents)
	documentFrequency := make(map[string]int)
	for _, document := range documents {
		seen := make(map[string]struct{})
		for _, term := range s.Analyze(document) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			documentFrequency[term]++
		}
	}

	minDF, maxCount := s.frequencyBounds(count)

	vocabulary := make([]string, 0, len(documentFrequency))
	for term, frequency := range documentFrequency {
		if frequency >= minDF && float64(frequency) <= maxCount {
			vocabulary = append(vocabulary, term)
		}
	}
	slices.Sort(vocabulary)

	state := &fittedState{
		vocabulary:    vocabulary,
		index:         make(map[string]int, len(vocabulary)),
		idf:           make([]float64, len(vocabulary)),
		documentCount: count,
	}
	for i, term := range vocabulary {
		state.index[term] = i
		state.idf[i] = math.Log(float64(1+count)/float64(1+documentFrequency[term])) + 1
	}
	s.fitted.Store(state)
	return nil
}

// frequencyBounds returns the effective minimum document count and the
// maximum document count for a collection of count documents.
func (s *Space) frequencyBounds(count int) (int, float64) {
	if count == 0 {
		return 0, 0
	}
	minDF := min(s.options.MinDF, count)
	maxFraction := max(float64(minDF)/float64(count), s.options.MaxDF)
	// A tiny epsilon absorbs float error in fraction*count.
	return minDF, maxFraction*float64(count) + 1e-9
}

// Transform projects documents into vectors over the fitted
// vocabulary, one vector per document in input order.
func (s *Space) Transform(documents []string) ([]Vector, error) {
	state := s.fitted.Load()
	if state == nil {
		return nil, ErrNotFitted
	}
	vectors := make([]Vector, len(documents))
	for i, document := range documents {
		vectors[i] = s.vector(state, document)
	}
	return vectors, nil
}

// TransformOne projects a single document.
func (s *Space) TransformOne(document string) (Vector, error) {
	vectors, err := s.Transform([]string{document})
	if err != nil {
		return Vector{}, err
	}
	return vectors[0], nil
}

func (s *Space) vector(state *fittedState, document string) Vector {
	counts := make(map[int]int)
	for _, term := range s.Analyze(document) {
		if index, ok := state.index[term]; ok {
			counts[index]++
		}
	}

	vector := Vector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for index := range counts {
		vector.Indices = append(vector.Indices, index)
	}
	slices.Sort(vector.Indices)
	for _, index := range vector.Indices {
		tf := float64(counts[index])
		if s.options.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		vector.Values = append(vector.Values, tf*state.idf[index])
	}

	var length float64
	switch s.options.Norm {
	case NormL1:
		length = vector.Norm1()
	case NormL2:
		length = vector.Norm2()
	}
	if length > 0 {
		vector.scale(1 / length)
	}
	return vector
}

// Analyze returns the terms of text: lemmas from the language model,
// optionally stemmed, expanded to n-grams of size 1 through NgramMax.
func (s *Space) Analyze(text string) []string {
	lemmas := s.model.Lemmas(text)
	if s.options.Stem {
		for i, lemma := range lemmas {
			lemmas[i] = english.Stem(lemma, false)
		}
	}
	if s.options.NgramMax <= 1 {
		return lemmas
	}

	terms := make([]string, 0, len(lemmas)*s.options.NgramMax)
	terms = append(terms, lemmas...)
	for size := 2; size <= s.options.NgramMax; size++ {
		for start := 0; start+size <= len(lemmas); start++ {
			terms = append(terms, strings.Join(lemmas[start:start+size], " "))
		}
	}
	return terms
}

// Fitted reports whether Fit has completed.
func (s *Space) Fitted() bool {
	return s.fitted.Load() != nil
}

// Vocabulary returns a copy of the fitted vocabulary in index order,
// or nil before Fit.
func (s *Space) Vocabulary() []string {
	state := s.fitted.Load()
	if state == nil {
		return nil
	}
	return slices.Clone(state.vocabulary)
}

// IDF returns the inverse document frequency of term and whether the
// term is in the fitted vocabulary.
func (s *Space) IDF(term string) (float64, bool) {
	state := s.fitted.Load()
	if state == nil {
		return 0, false
	}
	index, ok := state.index[term]
	if !ok {
		return 0, false
	}
	return state.idf[index], true
}
