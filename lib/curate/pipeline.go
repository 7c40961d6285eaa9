// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package curate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dataquest-foundation/dataquest/lib/archive"
	"github.com/dataquest-foundation/dataquest/lib/manifest"
	"github.com/dataquest-foundation/dataquest/lib/normcache"
	"github.com/dataquest-foundation/dataquest/lib/relevance"
	"github.com/dataquest-foundation/dataquest/lib/textnorm"
	"github.com/dataquest-foundation/dataquest/lib/vsm"
)

// ErrNoKeywords is returned when no keyword survives normalization.
var ErrNoKeywords = errors.New("curate: no usable keywords")

// ArticleReader reads one article from an archive. *archive.Reader
// implements it.
type ArticleReader interface {
	Read(path, articleID string) archive.Result
}

// NormalizationCache stores normalized title and body text between
// runs. *normcache.Cache implements it.
type NormalizationCache interface {
	Get(ctx context.Context, key normcache.Key) (normcache.Entry, bool, error)
	Put(ctx context.Context, key normcache.Key, entry normcache.Entry) error
}

// Deps are the collaborators a pipeline is composed from.
type Deps struct {
	// Normalizer is required. Its language model also drives the
	// vector space tokenizer.
	Normalizer *textnorm.Normalizer

	// Reader is required.
	Reader ArticleReader

	// Cache is optional.
	Cache NormalizationCache

	// Logger defaults to a no-op logger.
	Logger *slog.Logger
}

// Options tune a pipeline.
type Options struct {
	// Workers bounds concurrent article reads. Zero means
	// runtime.NumCPU().
	Workers int

	// Space configures the vector space fitted on each run.
	Space vsm.Options

	// Progress, if set, is called after each row finishes with the
	// number of finished rows and the total. Calls are serialized.
	Progress func(done, total int)
}

// DefaultOptions returns options with the default vector space.
func DefaultOptions() Options {
	return Options{Space: vsm.DefaultOptions()}
}

// Pipeline runs relevance selection. It is safe to call Run from
// several goroutines.
type Pipeline struct {
	normalizer *textnorm.Normalizer
	reader     ArticleReader
	cache      NormalizationCache
	logger     *slog.Logger
	options    Options
}

// New validates deps and options and returns a pipeline.
func New(deps Deps, options Options) (*Pipeline, error) {
	var errs []error
	if deps.Normalizer == nil {
		errs = append(errs, errors.New("normalizer is required"))
	}
	if deps.Reader == nil {
		errs = append(errs, errors.New("reader is required"))
	}
	if err := options.Space.Validate(); err != nil {
		errs = append(errs, err)
	}
	if options.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", options.Workers))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("curate: %w", errors.Join(errs...))
	}

	if options.Workers == 0 {
		options.Workers = runtime.NumCPU()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		normalizer: deps.Normalizer,
		reader:     deps.Reader,
		cache:      deps.Cache,
		logger:     logger,
		options:    options,
	}, nil
}

// Failure records a row that could not be read.
type Failure struct {
	Index     int            `json:"index"`
	FilePath  string         `json:"file_path"`
	ArticleID string         `json:"article_id"`
	Reason    archive.Reason `json:"reason"`
	Error     string         `json:"error"`
}

// Score is the similarity of one scored row.
type Score struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// Report describes a finished run. All indices are manifest indices.
type Report struct {
	RunID string `json:"run_id"`

	// Rows is the number of manifest rows considered.
	Rows int `json:"rows"`

	// Keywords are the normalized keywords that formed the query.
	Keywords []string `json:"keywords"`

	Selection string `json:"selection"`

	// TitleMatches are rows accepted because their title contains a
	// keyword. Their bodies were not scored.
	TitleMatches []int `json:"title_matches"`

	// Scores holds every row that entered the vector space, in
	// manifest order.
	Scores []Score `json:"scores"`

	// PolicySelected are the scored rows chosen by the selection rule.
	PolicySelected []int `json:"policy_selected"`

	// Selected is the union of TitleMatches and PolicySelected in
	// ascending order.
	Selected []int `json:"selected"`

	// Failures are rows whose article could not be read.
	Failures []Failure `json:"failures"`

	// EmptyBodies are rows read successfully whose body normalized to
	// nothing. They are not scored.
	EmptyBodies []int `json:"empty_bodies"`

	// VocabularySize is the size of the fitted vector space.
	VocabularySize int `json:"vocabulary_size"`

	// CacheHits counts rows served from the normalization cache.
	CacheHits int `json:"cache_hits"`

	Duration time.Duration `json:"duration"`
}

// NormalizeKeywords normalizes each keyword and drops those that
// normalize to nothing, preserving order and removing duplicates.
func (p *Pipeline) NormalizeKeywords(keywords []string) []string {
	var normalized []string
	for _, keyword := range keywords {
		cleaned := p.normalizer.Normalize(keyword)
		if cleaned == "" || slices.Contains(normalized, cleaned) {
			continue
		}
		normalized = append(normalized, cleaned)
	}
	return normalized
}

// Run selects the rows relevant to keywords under selection.
func (p *Pipeline) Run(ctx context.Context, rows []manifest.Row, keywords []string, selection relevance.SelectionConfig) (*Report, error) {
	if err := selection.Validate(); err != nil {
		return nil, err
	}
	normalizedKeywords := p.NormalizeKeywords(keywords)
	if len(normalizedKeywords) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoKeywords, keywords)
	}

	start := time.Now()
	report := &Report{
		RunID:     uuid.NewString(),
		Rows:      len(rows),
		Keywords:  normalizedKeywords,
		Selection: selection.String(),
	}
	logger := p.logger.With("run_id", report.RunID)
	logger.Info("relevance run starting",
		"rows", len(rows),
		"keywords", normalizedKeywords,
		"selection", report.Selection,
		"workers", p.options.Workers,
	)

	outcomes, err := p.processRows(ctx, logger, rows, normalizedKeywords)
	if err != nil {
		return nil, err
	}

	// Everything below runs after the barrier: every row is settled.
	var (
		documents []string
		positions []int
	)
	for i, outcome := range outcomes {
		index := rows[i].Index
		if outcome.cacheHit {
			report.CacheHits++
		}
		switch outcome.kind {
		case outcomeFailed:
			report.Failures = append(report.Failures, Failure{
				Index:     index,
				FilePath:  rows[i].FilePath,
				ArticleID: rows[i].ArticleID,
				Reason:    outcome.failure.Reason,
				Error:     errorString(outcome.failure.Err),
			})
		case outcomeTitleMatch:
			report.TitleMatches = append(report.TitleMatches, index)
		case outcomeBody:
			if outcome.body == "" {
				report.EmptyBodies = append(report.EmptyBodies, index)
				continue
			}
			documents = append(documents, outcome.body)
			positions = append(positions, index)
		}
	}

	if len(documents) > 0 {
		scores, vocabularySize, err := p.score(documents, normalizedKeywords)
		if err != nil {
			return nil, err
		}
		report.VocabularySize = vocabularySize
		for position, score := range scores {
			report.Scores = append(report.Scores, Score{Index: positions[position], Score: score})
		}

		chosen, err := relevance.Select(scores, selection)
		if err != nil {
			return nil, err
		}
		for _, position := range chosen {
			report.PolicySelected = append(report.PolicySelected, positions[position])
		}
		slices.Sort(report.PolicySelected)
	}

	report.Selected = append(slices.Clone(report.TitleMatches), report.PolicySelected...)
	slices.Sort(report.Selected)
	report.Selected = slices.Compact(report.Selected)
	report.Duration = time.Since(start)

	logger.Info("relevance run finished",
		"selected", len(report.Selected),
		"title_matches", len(report.TitleMatches),
		"scored", len(report.Scores),
		"failures", len(report.Failures),
		"empty_bodies", len(report.EmptyBodies),
		"cache_hits", report.CacheHits,
		"vocabulary", report.VocabularySize,
		"duration", report.Duration,
	)
	return report, nil
}

// score fits a fresh space on documents and scores each against the
// keyword query.
func (p *Pipeline) score(documents, keywords []string) ([]float64, int, error) {
	space, err := vsm.New(p.normalizer.Model(), p.options.Space)
	if err != nil {
		return nil, 0, err
	}
	if err := space.Fit(documents); err != nil {
		return nil, 0, err
	}
	vectors, err := space.Transform(documents)
	if err != nil {
		return nil, 0, err
	}
	query, err := space.TransformOne(strings.Join(keywords, " "))
	if err != nil {
		return nil, 0, err
	}
	return relevance.Score(query, vectors), len(space.Vocabulary()), nil
}

type outcomeKind uint8

const (
	outcomeFailed outcomeKind = iota
	outcomeTitleMatch
	outcomeBody
)

// rowOutcome is the phase-one result for one row.
type rowOutcome struct {
	kind     outcomeKind
	body     string
	failure  archive.Result
	cacheHit bool
}

func (p *Pipeline) processRows(ctx context.Context, logger *slog.Logger, rows []manifest.Row, keywords []string) ([]rowOutcome, error) {
	outcomes := make([]rowOutcome, len(rows))

	var (
		progressMutex sync.Mutex
		done          int
	)
	finished := func() {
		if p.options.Progress == nil {
			return
		}
		progressMutex.Lock()
		defer progressMutex.Unlock()
		done++
		p.options.Progress(done, len(rows))
	}

	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(p.options.Workers)
	for i, row := range rows {
		group.Go(func() error {
			if err := groupContext.Err(); err != nil {
				return err
			}
			outcomes[i] = p.processRow(groupContext, logger, row, keywords)
			finished()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("curate: run interrupted: %w", err)
	}
	return outcomes, nil
}

func (p *Pipeline) processRow(ctx context.Context, logger *slog.Logger, row manifest.Row, keywords []string) rowOutcome {
	var (
		key    normcache.Key
		keyed  bool
		cached normcache.Entry
		hit    bool
	)
	if p.cache != nil {
		var err error
		key, err = normcache.KeyFor(row.FilePath, row.ArticleID, p.normalizer.Model().Fingerprint(), textnorm.Version)
		keyed = err == nil
		if keyed {
			cached, hit, err = p.cache.Get(ctx, key)
			if err != nil {
				logger.Warn("normalization cache read failed", "index", row.Index, "error", err)
				hit = false
			}
		}
	}
	if hit {
		if titleMatches(cached.Title, keywords) {
			logger.Debug("title matched keyword", "index", row.Index, "article_id", row.ArticleID)
			return rowOutcome{kind: outcomeTitleMatch, cacheHit: true}
		}
		return rowOutcome{kind: outcomeBody, body: cached.Body, cacheHit: true}
	}

	result := p.reader.Read(row.FilePath, row.ArticleID)
	if !result.OK() {
		return rowOutcome{kind: outcomeFailed, failure: result}
	}

	title := p.normalizer.Normalize(result.Title)
	if titleMatches(title, keywords) {
		logger.Debug("title matched keyword", "index", row.Index, "article_id", row.ArticleID)
		return rowOutcome{kind: outcomeTitleMatch}
	}

	body := p.normalizer.Normalize(result.Body)
	if keyed {
		if err := p.cache.Put(ctx, key, normcache.Entry{Title: title, Body: body}); err != nil {
			logger.Warn("normalization cache write failed", "index", row.Index, "error", err)
		}
	}
	return rowOutcome{kind: outcomeBody, body: body}
}

// titleMatches reports whether any keyword occurs in title.
func titleMatches(title string, keywords []string) bool {
	if title == "" {
		return false
	}
	for _, keyword := range keywords {
		if strings.Contains(title, keyword) {
			return true
		}
	}
	return false
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
