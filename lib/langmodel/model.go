// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package langmodel

import (
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/zeebo/blake3"

	"github.com/dataquest-foundation/dataquest/lib/codec"
)

// Source is the serialized form of a model: the YAML document shipped
// with the binary or fetched by an installer, and the CBOR payload of
// an installed model file.
type Source struct {
	Name      string            `yaml:"name" cbor:"name"`
	Version   string            `yaml:"version" cbor:"version"`
	Language  string            `yaml:"language" cbor:"language"`
	Stopwords []string          `yaml:"stopwords" cbor:"stopwords"`
	Lemmas    map[string]string `yaml:"lemmas" cbor:"lemmas"`
}

// Model is an immutable tokenizer, stop-word list and lemmatizer. All
// methods are safe for concurrent use.
type Model struct {
	name     string
	version  string
	language string

	// stopwords holds lower-cased stop-words. Membership is tested on
	// the lower-cased token text before lemmatization.
	stopwords map[string]struct{}

	// lemmas maps a lower-cased inflected form to its lemma. Forms
	// absent from the table are their own lemma.
	lemmas map[string]string

	// fingerprint identifies the exact model contents. Caches of
	// normalized text key on it so a model upgrade invalidates them.
	fingerprint string
}

// fingerprintKey is the BLAKE3 keyed-hash domain for model
// fingerprints: "dataquest.langmodel" zero-padded to 32 bytes.
var fingerprintKey = [32]byte{
	'd', 'a', 't', 'a', 'q', 'u', 'e', 's', 't', '.', 'l', 'a', 'n', 'g', 'm', 'o',
	'd', 'e', 'l', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Compile validates a source and builds a model from it.
func Compile(source Source) (*Model, error) {
	if err := source.Validate(); err != nil {
		return nil, err
	}

	canonical := source.canonical()
	encoded, err := codec.Marshal(canonical)
	if err != nil {
		return nil, fmt.Errorf("langmodel: encoding %s for fingerprint: %w", source.Name, err)
	}
	hasher, err := blake3.NewKeyed(fingerprintKey[:])
	if err != nil {
		panic("langmodel: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(encoded)

	model := &Model{
		name:        canonical.Name,
		version:     canonical.Version,
		language:    canonical.Language,
		stopwords:   make(map[string]struct{}, len(canonical.Stopwords)),
		lemmas:      canonical.Lemmas,
		fingerprint: hex.EncodeToString(hasher.Sum(nil)),
	}
	for _, word := range canonical.Stopwords {
		model.stopwords[word] = struct{}{}
	}
	return model, nil
}

// canonical returns a copy with lower-cased, sorted, de-duplicated
// stop-words so that equivalent sources fingerprint identically.
func (s Source) canonical() Source {
	stopwords := make([]string, 0, len(s.Stopwords))
	for _, word := range s.Stopwords {
		stopwords = append(stopwords, strings.ToLower(word))
	}
	slices.Sort(stopwords)
	stopwords = slices.Compact(stopwords)

	lemmas := make(map[string]string, len(s.Lemmas))
	for form, lemma := range s.Lemmas {
		lemmas[form] = lemma
	}

	return Source{
		Name:      s.Name,
		Version:   s.Version,
		Language:  s.Language,
		Stopwords: stopwords,
		Lemmas:    lemmas,
	}
}

// Validate checks the structural and lemma-table constraints described
// in the package documentation. All violations are reported together.
func (s Source) Validate() error {
	var errs []error

	if s.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if s.Version == "" {
		errs = append(errs, errors.New("version is required"))
	}

	stopwords := make(map[string]struct{}, len(s.Stopwords))
	for _, word := range s.Stopwords {
		if strings.TrimSpace(word) == "" {
			errs = append(errs, errors.New("empty stop-word"))
			continue
		}
		stopwords[strings.ToLower(word)] = struct{}{}
	}

	// Sorted iteration keeps error output stable.
	forms := make([]string, 0, len(s.Lemmas))
	for form := range s.Lemmas {
		forms = append(forms, form)
	}
	slices.Sort(forms)

	for _, form := range forms {
		lemma := s.Lemmas[form]
		if !isLowerLetters(form) {
			errs = append(errs, fmt.Errorf("lemma key %q is not a lower-case letter run", form))
		}
		if !isLowerLetters(lemma) {
			errs = append(errs, fmt.Errorf("lemma %q for %q is not a lower-case letter run", lemma, form))
		}
		if next, ok := s.Lemmas[lemma]; ok && next != lemma {
			errs = append(errs, fmt.Errorf("lemma %q for %q is not a fixed point (maps to %q)", lemma, form, next))
		}
		_, formIsStop := stopwords[form]
		_, lemmaIsStop := stopwords[lemma]
		if !formIsStop && lemmaIsStop {
			errs = append(errs, fmt.Errorf("content word %q lemmatizes to stop-word %q", form, lemma))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("langmodel: invalid model %q: %w", s.Name, errors.Join(errs...))
	}
	return nil
}

func isLowerLetters(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) && !unicode.Is(unicode.M, r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			return false
		}
	}
	return true
}

// Name returns the model name (for example "en_core_web").
func (m *Model) Name() string { return m.name }

// Version returns the model's version string.
func (m *Model) Version() string { return m.version }

// Language returns the model's language code.
func (m *Model) Language() string { return m.language }

// Fingerprint returns a hex BLAKE3 digest of the model contents.
func (m *Model) Fingerprint() string { return m.fingerprint }

// StopwordCount returns the number of distinct stop-words.
func (m *Model) StopwordCount() int { return len(m.stopwords) }

// LemmaCount returns the number of entries in the lemma table.
func (m *Model) LemmaCount() int { return len(m.lemmas) }

// IsStopword reports whether word (compared case-insensitively) is a
// stop-word.
func (m *Model) IsStopword(word string) bool {
	_, ok := m.stopwords[strings.ToLower(word)]
	return ok
}

// Lemma returns the lower-cased lemma of word.
func (m *Model) Lemma(word string) string {
	lower := strings.ToLower(word)
	if lemma, ok := m.lemmas[lower]; ok {
		return lemma
	}
	return lower
}

// Lemmas tokenizes text and returns the lower-cased lemma of every
// token that is neither a stop-word nor punctuation or a symbol.
// Number tokens are kept.
func (m *Model) Lemmas(text string) []string {
	tokens := Tokenize(text)
	lemmas := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token.Kind == Punct {
			continue
		}
		if m.IsStopword(token.Text) {
			continue
		}
		lemmas = append(lemmas, m.Lemma(token.Text))
	}
	return lemmas
}
