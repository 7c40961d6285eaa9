// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package vsm

import (
	"errors"
	"math"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/dataquest-foundation/dataquest/lib/langmodel"
)

func testModel(t *testing.T) *langmodel.Model {
	t.Helper()
	model, err := langmodel.Embedded(langmodel.DefaultName)
	if err != nil {
		t.Fatalf("loading embedded model: %v", err)
	}
	return model
}

func newSpace(t *testing.T, options Options) *Space {
	t.Helper()
	space, err := New(testModel(t), options)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return space
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFitVocabularyAndIDF(t *testing.T) {
	space := newSpace(t, DefaultOptions())
	if err := space.Fit([]string{"climate change", "climate policy", "the election"}); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	want := []string{"change", "climate", "election", "policy"}
	if got := space.Vocabulary(); !slices.Equal(got, want) {
		t.Errorf("Vocabulary = %v, want %v", got, want)
	}

	idf, ok := space.IDF("climate")
	if !ok || !approxEqual(idf, math.Log(4.0/3.0)+1) {
		t.Errorf("IDF(climate) = %v, %v", idf, ok)
	}
	idf, ok = space.IDF("policy")
	if !ok || !approxEqual(idf, math.Log(2)+1) {
		t.Errorf("IDF(policy) = %v, %v", idf, ok)
	}
	if _, ok := space.IDF("the"); ok {
		t.Error("stop-word is in the vocabulary")
	}
}

func TestTransformL1(t *testing.T) {
	space := newSpace(t, DefaultOptions())
	if err := space.Fit([]string{"climate change", "climate policy", "election"}); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	vector, err := space.TransformOne("Climate changes")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if !slices.Equal(vector.Indices, []int{0, 1}) {
		t.Fatalf("Indices = %v, want [0 1]", vector.Indices)
	}
	change := math.Log(2) + 1
	climate := math.Log(4.0/3.0) + 1
	total := change + climate
	if !approxEqual(vector.Values[0], change/total) || !approxEqual(vector.Values[1], climate/total) {
		t.Errorf("Values = %v, want [%v %v]", vector.Values, change/total, climate/total)
	}
	if !approxEqual(vector.Norm1(), 1) {
		t.Errorf("Norm1 = %v, want 1", vector.Norm1())
	}
}

func TestTransformNorms(t *testing.T) {
	documents := []string{"vote vote election", "storm flood"}
	tests := []struct {
		norm Norm
		want func(Vector) float64
	}{
		{NormL1, Vector.Norm1},
		{NormL2, Vector.Norm2},
	}
	for _, test := range tests {
		options := DefaultOptions()
		options.Norm = test.norm
		space := newSpace(t, options)
		if err := space.Fit(documents); err != nil {
			t.Fatalf("Fit: %v", err)
		}
		vectors, err := space.Transform(documents)
		if err != nil {
			t.Fatalf("Transform: %v", err)
		}
		for i, vector := range vectors {
			if got := test.want(vector); !approxEqual(got, 1) {
				t.Errorf("%s norm of vector %d = %v, want 1", test.norm, i, got)
			}
		}
	}

	options := DefaultOptions()
	options.Norm = NormNone
	space := newSpace(t, options)
	if err := space.Fit(documents); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	vector, err := space.TransformOne("vote vote")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	want := 2 * (math.Log(1.5) + 1)
	if vector.Len() != 1 || !approxEqual(vector.Values[0], want) {
		t.Errorf("unnormalized vector = %+v, want single weight %v", vector, want)
	}
}

func TestTransformSublinearTF(t *testing.T) {
	options := DefaultOptions()
	options.Norm = NormNone
	options.SublinearTF = true
	space := newSpace(t, options)
	if err := space.Fit([]string{"vote", "storm"}); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	vector, err := space.TransformOne("vote vote vote")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	want := (1 + math.Log(3)) * (math.Log(1.5) + 1)
	if vector.Len() != 1 || !approxEqual(vector.Values[0], want) {
		t.Errorf("vector = %+v, want single weight %v", vector, want)
	}
}

func TestTransformIgnoresUnknownTerms(t *testing.T) {
	space := newSpace(t, DefaultOptions())
	if err := space.Fit([]string{"climate change"}); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	vector, err := space.TransformOne("glacier melt")
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if !vector.IsZero() || vector.Len() != 0 {
		t.Errorf("vector = %+v, want zero", vector)
	}
}

func TestTransformBeforeFit(t *testing.T) {
	space := newSpace(t, DefaultOptions())
	if _, err := space.Transform([]string{"climate"}); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Transform error = %v, want ErrNotFitted", err)
	}
	if space.Fitted() {
		t.Error("Fitted = true before Fit")
	}
}

func TestFitDegenerateCollections(t *testing.T) {
	tests := []struct {
		name      string
		documents []string
	}{
		{"no documents", nil},
		{"only stop-words", []string{"the and of"}},
		{"empty strings", []string{"", ""}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			space := newSpace(t, DefaultOptions())
			if err := space.Fit(test.documents); err != nil {
				t.Fatalf("Fit: %v", err)
			}
			if len(space.Vocabulary()) != 0 {
				t.Errorf("Vocabulary = %v, want empty", space.Vocabulary())
			}
			vector, err := space.TransformOne("climate change")
			if err != nil {
				t.Fatalf("Transform: %v", err)
			}
			if !vector.IsZero() {
				t.Errorf("vector = %+v, want zero", vector)
			}
		})
	}
}

func TestDocumentFrequencyBounds(t *testing.T) {
	documents := []string{"climate change", "climate policy", "climate vote"}
	tests := []struct {
		name  string
		minDF int
		maxDF float64
		want  []string
	}{
		{"defaults", 1, 1.0, []string{"change", "climate", "policy", "vote"}},
		{"min clamped to collection size", 10, 1.0, []string{"climate"}},
		{"max excludes common term", 1, 0.5, []string{"change", "policy", "vote"}},
		{"max raised to min fraction", 1, 0.1, []string{"change", "policy", "vote"}},
		{"min two", 2, 1.0, []string{"climate"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			options := DefaultOptions()
			options.MinDF = test.minDF
			options.MaxDF = test.maxDF
			space := newSpace(t, options)
			if err := space.Fit(documents); err != nil {
				t.Fatalf("Fit: %v", err)
			}
			if got := space.Vocabulary(); !slices.Equal(got, test.want) {
				t.Errorf("Vocabulary = %v, want %v", got, test.want)
			}
		})
	}
}

func TestNgrams(t *testing.T) {
	options := DefaultOptions()
	options.NgramMax = 2
	space := newSpace(t, options)
	got := space.Analyze("Climate change threatens coastal cities")
	want := []string{
		"climate", "change", "threaten", "coastal", "city",
		"climate change", "change threaten", "threaten coastal", "coastal city",
	}
	if !slices.Equal(got, want) {
		t.Errorf("Analyze = %v, want %v", got, want)
	}
}

func TestStemming(t *testing.T) {
	options := DefaultOptions()
	options.Stem = true
	space := newSpace(t, options)
	got := space.Analyze("Elections announced")
	want := []string{"elect", "announc"}
	if !slices.Equal(got, want) {
		t.Errorf("Analyze = %v, want %v", got, want)
	}
}

func TestRefitReplacesState(t *testing.T) {
	space := newSpace(t, DefaultOptions())
	if err := space.Fit([]string{"climate"}); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if err := space.Fit([]string{"election"}); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if got := space.Vocabulary(); !slices.Equal(got, []string{"election"}) {
		t.Errorf("Vocabulary = %v, want [election]", got)
	}
}

func TestConcurrentTransform(t *testing.T) {
	space := newSpace(t, DefaultOptions())
	documents := []string{"climate change", "climate policy", "election result"}
	if err := space.Fit(documents); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	reference, err := space.Transform(documents)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	var waitGroup sync.WaitGroup
	for range 8 {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			vectors, err := space.Transform(documents)
			if err != nil {
				t.Errorf("Transform: %v", err)
				return
			}
			for i := range vectors {
				if !slices.Equal(vectors[i].Indices, reference[i].Indices) ||
					!slices.Equal(vectors[i].Values, reference[i].Values) {
					t.Errorf("vector %d differs under concurrency", i)
				}
			}
		}()
	}
	waitGroup.Wait()
}

func TestOptionsValidate(t *testing.T) {
	options := Options{NgramMax: 0, Norm: "l3", MinDF: -1, MaxDF: 2}
	_, err := New(testModel(t), options)
	if err == nil {
		t.Fatal("New accepted invalid options")
	}
	for _, fragment := range []string{"ngram_max", "unknown norm", "min_df", "max_df"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("error %q does not mention %s", err, fragment)
		}
	}
	if _, err := New(nil, DefaultOptions()); err == nil {
		t.Error("New accepted nil model")
	}
}

func TestVectorDot(t *testing.T) {
	a := Vector{Indices: []int{0, 2, 5}, Values: []float64{1, 2, 3}}
	b := Vector{Indices: []int{2, 3, 5}, Values: []float64{4, 1, 2}}
	if got := a.Dot(b); got != 14 {
		t.Errorf("Dot = %v, want 14", got)
	}
	if got := a.Weight(5); got != 3 {
		t.Errorf("Weight(5) = %v, want 3", got)
	}
	if got := a.Weight(1); got != 0 {
		t.Errorf("Weight(1) = %v, want 0", got)
	}
}
