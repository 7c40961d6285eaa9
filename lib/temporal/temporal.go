// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package temporal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// DateLayout is the layout of the Date field.
const DateLayout = "2006-01-02"

var (
	// ErrMissingDate is returned for a document without a Date field.
	ErrMissingDate = errors.New("temporal: document has no Date")

	// ErrMalformedDate is returned when Date is not a YYYY-MM-DD date.
	ErrMalformedDate = errors.New("temporal: malformed Date")
)

// Period is a bucketing granularity.
type Period uint8

const (
	Year Period = iota + 1
	Decade
)

// String returns the period's name as accepted by ParsePeriod.
func (p Period) String() string {
	switch p {
	case Year:
		return "year"
	case Decade:
		return "decade"
	default:
		return fmt.Sprintf("Period(%d)", uint8(p))
	}
}

// ParsePeriod parses "year" or "decade", ignoring case.
func ParsePeriod(name string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "year":
		return Year, nil
	case "decade":
		return Decade, nil
	default:
		return 0, fmt.Errorf("temporal: unknown period %q (want year or decade)", name)
	}
}

// Categorize returns the bucket of t: its year for Year, the first
// year of its decade for Decade. Decades floor toward negative
// infinity, so year -5 falls in decade -10.
func Categorize(t time.Time, period Period) int {
	year := t.Year()
	if period != Decade {
		return year
	}
	decade := year / 10 * 10
	if year < 0 && year%10 != 0 {
		decade -= 10
	}
	return decade
}

// Document is a filtered-article record.
type Document struct {
	FilePath  string `json:"file_path"`
	ArticleID string `json:"article_id"`

	// Date is kept as written and parsed by Time.
	Date  *string `json:"Date"`
	Title string  `json:"Title"`
}

// ParseDocument decodes a document. It does not validate Date; call
// Time for that.
func ParseDocument(data []byte) (Document, error) {
	var document Document
	if err := json.Unmarshal(data, &document); err != nil {
		return Document{}, fmt.Errorf("temporal: decoding document: %w", err)
	}
	return document, nil
}

// Time parses the document's Date.
func (d Document) Time() (time.Time, error) {
	if d.Date == nil {
		return time.Time{}, ErrMissingDate
	}
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(*d.Date))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrMalformedDate, *d.Date)
	}
	return parsed, nil
}

// Bucket is a categorized document.
type Bucket struct {
	Path      string
	Period    int
	FilePath  string
	ArticleID string
}

// CategorizeFile reads the document at path and buckets it.
func CategorizeFile(path string, period Period) (Bucket, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bucket{}, fmt.Errorf("temporal: %w", err)
	}
	document, err := ParseDocument(data)
	if err != nil {
		return Bucket{}, fmt.Errorf("%s: %w", path, err)
	}
	date, err := document.Time()
	if err != nil {
		return Bucket{}, fmt.Errorf("%s: %w", path, err)
	}
	return Bucket{
		Path:      path,
		Period:    Categorize(date, period),
		FilePath:  document.FilePath,
		ArticleID: document.ArticleID,
	}, nil
}

// Outcome is the result of categorizing one file. Exactly one of
// Bucket and Err is meaningful.
type Outcome struct {
	Bucket Bucket
	Err    error
}

// CategorizeFiles categorizes paths with up to workers files in
// flight (runtime.NumCPU() when workers is zero or less). Outcomes
// are in the order of paths. Per-file errors are reported in the
// outcome; only cancellation of ctx fails the call.
func CategorizeFiles(ctx context.Context, paths []string, period Period, workers int) ([]Outcome, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	outcomes := make([]Outcome, len(paths))

	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(workers)
	for i, path := range paths {
		group.Go(func() error {
			if err := groupContext.Err(); err != nil {
				return err
			}
			bucket, err := CategorizeFile(path, period)
			outcomes[i] = Outcome{Bucket: bucket, Err: err}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("temporal: categorization interrupted: %w", err)
	}
	return outcomes, nil
}
