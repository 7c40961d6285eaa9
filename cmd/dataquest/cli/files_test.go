// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"articles_1990.csv",
		"articles_2000.csv",
		"notes.txt",
		"nested/articles_2010.csv",
		"nested/deeper/doc.json",
	} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		pattern string
		want    []string
	}{
		{"*.csv", []string{"articles_1990.csv", "articles_2000.csv", "nested/articles_2010.csv"}},
		{"articles_19*.csv", []string{"articles_1990.csv"}},
		{"*.json", []string{"nested/deeper/doc.json"}},
		{"nested/*.csv", []string{"nested/articles_2010.csv"}},
		{"nested/**", []string{"nested/articles_2010.csv", "nested/deeper/doc.json"}},
		{"*.parquet", nil},
	}
	for _, test := range tests {
		t.Run(test.pattern, func(t *testing.T) {
			got, err := FindFiles(dir, test.pattern)
			if err != nil {
				t.Fatalf("FindFiles: %v", err)
			}
			var relative []string
			for _, path := range got {
				rel, _ := filepath.Rel(dir, path)
				relative = append(relative, filepath.ToSlash(rel))
			}
			if !slices.Equal(relative, test.want) {
				t.Errorf("FindFiles(%q) = %v, want %v", test.pattern, relative, test.want)
			}
		})
	}

	if _, err := FindFiles(filepath.Join(dir, "notes.txt"), "*"); err == nil {
		t.Error("FindFiles accepted a file as directory")
	}
	if _, err := FindFiles(filepath.Join(dir, "absent"), "*"); err == nil {
		t.Error("FindFiles accepted a missing directory")
	}
}
