// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package textnorm

import (
	"strings"
	"testing"
	"unicode"

	"github.com/dataquest-foundation/dataquest/lib/langmodel"
)

func newTestNormalizer(t testing.TB) *Normalizer {
	t.Helper()
	model, err := langmodel.Embedded(langmodel.DefaultName)
	if err != nil {
		t.Fatalf("loading embedded model: %v", err)
	}
	return New(model)
}

func TestNormalize(t *testing.T) {
	normalizer := newTestNormalizer(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"title", "Election Results Announced", "election result announce"},
		{"stopwords and punctuation", "The results of the election were announced!", "result election announce"},
		{"digits removed", "In 1999 voters elected 12 candidates", "voter elect candidate"},
		{"mixed digits split", "the 2nd round", "nd round"},
		{"single characters dropped", "x marks a spot, y too", "marks spot"},
		{"whitespace collapsed", "  storms\t\tflooded\n\nvillages  ", "storm flood village"},
		{"empty", "", ""},
		{"only noise", "... 42 !!! a", ""},
		{"irregular forms", "Children ran; prices rose", "child run price rise"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := normalizer.Normalize(test.input)
			if got != test.want {
				t.Errorf("Normalize(%q) = %q, want %q", test.input, got, test.want)
			}
		})
	}
}

func TestNormalizeOutputInvariants(t *testing.T) {
	normalizer := newTestNormalizer(t)
	model := normalizer.Model()

	got := normalizer.Normalize("On 3 May 1945, the war in Europe ended. It's over; 100% sure!")
	for _, token := range strings.Fields(got) {
		if len([]rune(token)) < 2 {
			t.Errorf("token %q has fewer than two characters", token)
		}
		if model.IsStopword(token) {
			t.Errorf("token %q is a stop-word", token)
		}
		for _, r := range token {
			if unicode.IsDigit(r) || unicode.IsPunct(r) {
				t.Errorf("token %q contains %q", token, r)
			}
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	normalizer := newTestNormalizer(t)
	inputs := []string{
		"Climate scientists warn that climate change accelerates glacier melt.",
		"Better late than never: the 2nd-best results were worse.",
		"ÉLECTIONS à Paris — 1er tour, 23 avril",
		"½ of the 3rd-place voters; ⅫⅫ ²3",
		"İstanbul'da seçim",
		"",
	}
	for _, input := range inputs {
		once := normalizer.Normalize(input)
		twice := normalizer.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func FuzzNormalizeIdempotent(f *testing.F) {
	f.Add("Election Results Announced")
	f.Add("The war ended in 1945, and soldiers returned home.")
	f.Add("a b c 1 2 3 ... !!!")
	f.Add("Leaves fell; the leaves were left behind.")
	normalizer := newTestNormalizer(f)
	f.Fuzz(func(t *testing.T, input string) {
		once := normalizer.Normalize(input)
		if twice := normalizer.Normalize(once); once != twice {
			t.Errorf("Normalize(%q) = %q, Normalize again = %q", input, once, twice)
		}
	})
}

func TestClean(t *testing.T) {
	normalizer := newTestNormalizer(t)

	tests := []struct {
		input string
		want  string
	}{
		{"Hello,   World!", "Hello , World !"},
		{"Price: $100 (50%)", "Price 100 ( 50 % )"},
		{"tabs\tand\nnewlines", "tabs and newlines"},
		{"«quoted» text", "quoted text"},
	}
	for _, test := range tests {
		got := normalizer.Clean(test.input)
		if got != test.want {
			t.Errorf("Clean(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestNewPanicsOnNilModel(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New(nil) did not panic")
		}
	}()
	New(nil)
}
