// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// PeriodFileName returns the bucket file name for a period, for
// example "articles_1990.csv".
func PeriodFileName(period int) string {
	return fmt.Sprintf("articles_%d.csv", period)
}

// AppendRow appends row to the bucket file for period in dir, writing
// the file_path,article_id header when the file is new. It returns the
// bucket file path.
func AppendRow(dir string, period int, row Row) (string, error) {
	path := filepath.Join(dir, PeriodFileName(period))

	_, statErr := os.Stat(path)
	isNew := errors.Is(statErr, fs.ErrNotExist)
	if statErr != nil && !isNew {
		return "", fmt.Errorf("checking %s: %w", path, statErr)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}

	writer := csv.NewWriter(file)
	if isNew {
		writer.Write([]string{ColumnFilePath, ColumnArticleID})
	}
	writer.Write([]string{row.FilePath, row.ArticleID})
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return "", fmt.Errorf("appending to %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}

// LabelFileName is the name of the labeling export.
const LabelFileName = "articles_to_label.csv"

// LabelRow is one row of the labeling export. In paragraph mode each
// paragraph of an article is its own row.
type LabelRow struct {
	FilePath  string
	ArticleID string
	Title     string
	Body      string
	Label     string
}

// LabelHeader is the header of the labeling export.
var LabelHeader = []string{ColumnFilePath, ColumnArticleID, "title", "body", "label"}

// WriteLabelSet writes rows to path atomically.
func WriteLabelSet(path string, rows []LabelRow) error {
	return writeAtomic(path, func(writer io.Writer) error {
		csvWriter := csv.NewWriter(writer)
		if err := csvWriter.Write(LabelHeader); err != nil {
			return err
		}
		for _, row := range rows {
			record := []string{row.FilePath, row.ArticleID, row.Title, row.Body, row.Label}
			if err := csvWriter.Write(record); err != nil {
				return err
			}
		}
		csvWriter.Flush()
		return csvWriter.Error()
	})
}
