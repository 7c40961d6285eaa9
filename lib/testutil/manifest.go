// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

// ManifestRow is one (archive, article) reference.
type ManifestRow struct {
	FilePath  string
	ArticleID string
}

// WriteManifest writes a manifest CSV named name into dir with the
// header file_path,article_id and returns its path.
func WriteManifest(t testing.TB, dir, name string, rows []ManifestRow) string {
	t.Helper()

	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating manifest: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	records := [][]string{{"file_path", "article_id"}}
	for _, row := range rows {
		records = append(records, []string{row.FilePath, row.ArticleID})
	}
	if err := writer.WriteAll(records); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return path
}
