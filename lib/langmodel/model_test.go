// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package langmodel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"slices"
	"strings"
	"testing"
)

func testSource() Source {
	return Source{
		Name:      "tiny",
		Version:   "1",
		Language:  "en",
		Stopwords: []string{"the", "The", "a", "is", "were"},
		Lemmas: map[string]string{
			"results":   "result",
			"announced": "announce",
			"were":      "be",
		},
	}
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("It's 2nd, café!")
	want := []Token{
		{Text: "It", Kind: Word},
		{Text: "'", Kind: Punct},
		{Text: "s", Kind: Word},
		{Text: "2", Kind: Number},
		{Text: "nd", Kind: Word},
		{Text: ",", Kind: Punct},
		{Text: "café", Kind: Word},
		{Text: "!", Kind: Punct},
	}
	if !slices.Equal(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenizeComposesDecomposedText(t *testing.T) {
	tokens := Tokenize("cafe\u0301")
	if len(tokens) != 1 || tokens[0].Text != "caf\u00e9" {
		t.Errorf("Tokenize = %v, want single composed token", tokens)
	}
}

func TestLemmas(t *testing.T) {
	model, err := Compile(testSource())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	got := model.Lemmas("The Results were Announced in 1999.")
	want := []string{"result", "announce", "in", "1999"}
	if !slices.Equal(got, want) {
		t.Errorf("Lemmas = %v, want %v", got, want)
	}
}

func TestCompileDeduplicatesStopwords(t *testing.T) {
	model, err := Compile(testSource())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if model.StopwordCount() != 4 {
		t.Errorf("StopwordCount = %d, want 4", model.StopwordCount())
	}
	if !model.IsStopword("THE") {
		t.Error("IsStopword(THE) = false, want true")
	}
}

func TestValidateRejectsUnstableLemmas(t *testing.T) {
	tests := []struct {
		name   string
		lemmas map[string]string
		want   string
	}{
		{
			name:   "chain",
			lemmas: map[string]string{"ran": "runs", "runs": "run"},
			want:   "not a fixed point",
		},
		{
			name:   "upper case",
			lemmas: map[string]string{"Ran": "run"},
			want:   "not a lower-case letter run",
		},
		{
			name:   "digit in lemma",
			lemmas: map[string]string{"second": "2nd"},
			want:   "not a lower-case letter run",
		},
		{
			name:   "content word to stop-word",
			lemmas: map[string]string{"thee": "the"},
			want:   "lemmatizes to stop-word",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			source := testSource()
			source.Lemmas = test.lemmas
			_, err := Compile(source)
			if err == nil {
				t.Fatal("Compile succeeded, want error")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error = %v, want it to contain %q", err, test.want)
			}
		})
	}
}

func TestFingerprintStable(t *testing.T) {
	first, err := Compile(testSource())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	reordered := testSource()
	slices.Reverse(reordered.Stopwords)
	second, err := Compile(reordered)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if first.Fingerprint() != second.Fingerprint() {
		t.Errorf("fingerprints differ: %s != %s", first.Fingerprint(), second.Fingerprint())
	}

	changed := testSource()
	changed.Lemmas["votes"] = "vote"
	third, err := Compile(changed)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if third.Fingerprint() == first.Fingerprint() {
		t.Error("fingerprint did not change with lemma table")
	}
}

func TestEmbeddedModelValid(t *testing.T) {
	model, err := Embedded(DefaultName)
	if err != nil {
		t.Fatalf("Embedded: %v", err)
	}
	if model.Name() != DefaultName {
		t.Errorf("Name = %q, want %q", model.Name(), DefaultName)
	}
	if model.Lemma("Elections") != "election" {
		t.Errorf("Lemma(Elections) = %q, want election", model.Lemma("Elections"))
	}
	if !model.IsStopword("the") {
		t.Error("the is not a stop-word")
	}
}

func TestWriteOpenRoundtrip(t *testing.T) {
	dir := t.TempDir()
	if err := Write(dir, testSource()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	model, err := Open(dir, "tiny")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	compiled, err := Compile(testSource())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if model.Fingerprint() != compiled.Fingerprint() {
		t.Errorf("installed fingerprint %s, want %s", model.Fingerprint(), compiled.Fingerprint())
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(t.TempDir(), "tiny")
	if !errors.Is(err, ErrNotInstalled) {
		t.Errorf("Open error = %v, want ErrNotInstalled", err)
	}
}

type countingInstaller struct {
	calls int
	err   error
	inner Installer
}

func (c *countingInstaller) Install(ctx context.Context, name, dir string) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	return c.inner.Install(ctx, name, dir)
}

func TestLoadInstallsOnce(t *testing.T) {
	dir := t.TempDir()
	installer := &countingInstaller{inner: EmbeddedInstaller{}}

	model, err := Load(context.Background(), LoadOptions{Dir: dir, Installer: installer})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if model.Name() != DefaultName {
		t.Errorf("Name = %q, want %q", model.Name(), DefaultName)
	}
	if installer.calls != 1 {
		t.Errorf("installer called %d times, want 1", installer.calls)
	}

	// Second load finds the installed file.
	if _, err := Load(context.Background(), LoadOptions{Dir: dir, Installer: installer}); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if installer.calls != 1 {
		t.Errorf("installer called %d times after reload, want 1", installer.calls)
	}
}

func TestLoadFailsAfterInstallFailure(t *testing.T) {
	installErr := errors.New("network down")
	installer := &countingInstaller{err: installErr}

	_, err := Load(context.Background(), LoadOptions{Dir: t.TempDir(), Installer: installer})
	if err == nil {
		t.Fatal("Load succeeded, want error")
	}
	if !errors.Is(err, installErr) {
		t.Errorf("error = %v, want it to wrap the install error", err)
	}
	if !errors.Is(err, ErrNotInstalled) {
		t.Errorf("error = %v, want it to wrap ErrNotInstalled", err)
	}
	if installer.calls != 1 {
		t.Errorf("installer called %d times, want 1", installer.calls)
	}
}

func TestLoadFailsWhenInstallWritesNothing(t *testing.T) {
	installer := &countingInstaller{inner: noopInstaller{}}
	_, err := Load(context.Background(), LoadOptions{Dir: t.TempDir(), Installer: installer})
	if err == nil {
		t.Fatal("Load succeeded, want error")
	}
	if installer.calls != 1 {
		t.Errorf("installer called %d times, want 1", installer.calls)
	}
}

type noopInstaller struct{}

func (noopInstaller) Install(context.Context, string, string) error { return nil }

func TestHTTPInstaller(t *testing.T) {
	source := `name: tiny
version: "2"
language: en
stopwords: [the]
lemmas:
  votes: vote
`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(source))
	}))
	defer server.Close()

	dir := t.TempDir()
	installer := HTTPInstaller{URL: server.URL, Client: server.Client()}
	if err := installer.Install(context.Background(), "tiny", dir); err != nil {
		t.Fatalf("Install: %v", err)
	}
	model, err := Open(dir, "tiny")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if model.Version() != "2" {
		t.Errorf("Version = %q, want 2", model.Version())
	}

	if err := installer.Install(context.Background(), "other", dir); err == nil {
		t.Error("Install of mismatched name succeeded, want error")
	}
	if _, err := os.Stat(Path(dir, "other")); err == nil {
		t.Error("mismatched model was written")
	}
}
