// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package relevance

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Kind names a selection rule.
type Kind string

const (
	// KindThreshold keeps every document scoring at or above a cutoff.
	KindThreshold Kind = "threshold"

	// KindNumArticles keeps the N highest-scoring documents.
	KindNumArticles Kind = "num_articles"
)

var (
	// ErrUnknownSelection is returned for a selection type other than
	// threshold or num_articles.
	ErrUnknownSelection = errors.New("relevance: unknown selection type")

	// ErrMissingSelection is returned when no selection is configured.
	ErrMissingSelection = errors.New("relevance: selection is not configured")
)

// SelectionConfig is a validated selection rule. Threshold is used
// when Kind is KindThreshold, Count when Kind is KindNumArticles.
type SelectionConfig struct {
	Kind      Kind
	Threshold float64
	Count     int
}

// Threshold returns a threshold selection.
func Threshold(value float64) SelectionConfig {
	return SelectionConfig{Kind: KindThreshold, Threshold: value}
}

// NumArticles returns a top-N selection.
func NumArticles(count int) SelectionConfig {
	return SelectionConfig{Kind: KindNumArticles, Count: count}
}

// String renders the config as type=value.
func (c SelectionConfig) String() string {
	switch c.Kind {
	case KindThreshold:
		return fmt.Sprintf("threshold=%g", c.Threshold)
	case KindNumArticles:
		return fmt.Sprintf("num_articles=%d", c.Count)
	default:
		return fmt.Sprintf("%s=?", c.Kind)
	}
}

// Validate checks that the kind is known and its value in range.
func (c SelectionConfig) Validate() error {
	switch c.Kind {
	case KindThreshold:
		if math.IsNaN(c.Threshold) {
			return errors.New("relevance: threshold is NaN")
		}
		return nil
	case KindNumArticles:
		if c.Count < 0 {
			return fmt.Errorf("relevance: num_articles must not be negative, got %d", c.Count)
		}
		return nil
	case "":
		return ErrMissingSelection
	default:
		return fmt.Errorf("%w %q (want %q or %q)", ErrUnknownSelection, c.Kind, KindThreshold, KindNumArticles)
	}
}

// RawSelection is the JSON form {"type": ..., "value": ...}. Value may
// be a JSON number or a numeric string.
type RawSelection struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// ParseSelectionConfig validates raw and converts it to a
// SelectionConfig.
func ParseSelectionConfig(raw RawSelection) (SelectionConfig, error) {
	if raw.Type == "" {
		return SelectionConfig{}, ErrMissingSelection
	}
	kind := Kind(raw.Type)
	if kind != KindThreshold && kind != KindNumArticles {
		return SelectionConfig{}, SelectionConfig{Kind: kind}.Validate()
	}

	text, err := numberText(raw.Value)
	if err != nil {
		return SelectionConfig{}, fmt.Errorf("relevance: %s value: %w", kind, err)
	}

	var config SelectionConfig
	switch kind {
	case KindThreshold:
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return SelectionConfig{}, fmt.Errorf("relevance: threshold value %q is not a number", text)
		}
		config = Threshold(value)
	case KindNumArticles:
		count, err := parseCount(text)
		if err != nil {
			return SelectionConfig{}, err
		}
		config = NumArticles(count)
	}
	return config, config.Validate()
}

// numberText extracts the textual number from a JSON number or string.
func numberText(value json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(value))
	if trimmed == "" || trimmed == "null" {
		return "", errors.New("value is required")
	}
	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := json.Unmarshal(value, &text); err != nil {
			return "", err
		}
		return strings.TrimSpace(text), nil
	}
	return trimmed, nil
}

// parseCount accepts integers and integral floats such as "3.0".
func parseCount(text string) (int, error) {
	if count, err := strconv.Atoi(text); err == nil {
		return count, nil
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || value != math.Trunc(value) || value > math.MaxInt32 {
		return 0, fmt.Errorf("relevance: num_articles value %q is not an integer", text)
	}
	return int(value), nil
}

// Select returns the indices into scores chosen by config, in
// ascending index order for threshold selection and in rank order for
// num_articles selection.
func Select(scores []float64, config SelectionConfig) ([]int, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Kind {
	case KindThreshold:
		selected := []int{}
		for i, score := range scores {
			if score >= config.Threshold {
				selected = append(selected, i)
			}
		}
		return selected, nil

	default:
		ranked := Rank(scores)
		return ranked[:min(config.Count, len(ranked))], nil
	}
}

// Rank returns all indices of scores ordered by descending score. Equal
// scores keep their original relative order.
func Rank(scores []float64) []int {
	indices := make([]int, len(scores))
	for i := range indices {
		indices[i] = i
	}
	slices.SortStableFunc(indices, func(a, b int) int {
		switch {
		case scores[a] > scores[b]:
			return -1
		case scores[a] < scores[b]:
			return 1
		default:
			return 0
		}
	})
	return indices
}
