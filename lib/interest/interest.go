// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package interest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/dataquest-foundation/dataquest/lib/relevance"
)

// DefaultFileName is the conventional config file name.
const DefaultFileName = "config.json"

// KeywordsFilterType is the filter entry that carries keywords.
const KeywordsFilterType = "KeywordsFilter"

// OutputUnit is the granularity of exported rows.
type OutputUnit string

const (
	UnitArticle   OutputUnit = "article"
	UnitParagraph OutputUnit = "paragraph"
)

// Filter is one entry of the filters list. Fields other than Type and
// Keywords are kept raw.
type Filter struct {
	Type     string   `json:"type"`
	Keywords []string `json:"keywords,omitempty"`
}

// Config is a parsed research-interest file.
type Config struct {
	Filters         []Filter                `json:"filters"`
	ArticleSelector *relevance.RawSelection `json:"article_selector"`
	OutputUnit      OutputUnit              `json:"output_unit"`
}

// Parse strips JSONC comments and trailing commas from data and
// decodes it.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("parsing interest config: %w", err)
	}
	return &config, nil
}

// ReadFile reads and parses the config at path.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Keywords returns the keywords of the first KeywordsFilter entry, or
// nil if there is none.
func (c *Config) Keywords() []string {
	for _, filter := range c.Filters {
		if filter.Type == KeywordsFilterType {
			return filter.Keywords
		}
	}
	return nil
}

// Selection returns the configured selection rule.
func (c *Config) Selection() (relevance.SelectionConfig, error) {
	if c.ArticleSelector == nil {
		return relevance.SelectionConfig{}, relevance.ErrMissingSelection
	}
	return relevance.ParseSelectionConfig(*c.ArticleSelector)
}

// Unit returns the output unit, defaulting to UnitArticle.
func (c *Config) Unit() (OutputUnit, error) {
	switch c.OutputUnit {
	case "", UnitArticle:
		return UnitArticle, nil
	case UnitParagraph:
		return UnitParagraph, nil
	default:
		return "", fmt.Errorf("interest: unknown output_unit %q (want %q or %q)", c.OutputUnit, UnitArticle, UnitParagraph)
	}
}

// ValidateForSelection checks what a selection run needs: at least one
// keyword and a valid selection rule.
func (c *Config) ValidateForSelection() error {
	var errs []error
	if len(c.Keywords()) == 0 {
		errs = append(errs, errors.New("interest: no KeywordsFilter keywords configured"))
	}
	if _, err := c.Selection(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
