// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// FindFiles returns the regular files under dir matching pattern, in
// lexical order. A pattern without a slash matches file names at any
// depth ("*.csv"); a pattern with a slash matches the path relative to
// dir ("1990s/**.csv").
func FindFiles(dir, pattern string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	matcher, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
	}
	byName := !strings.Contains(pattern, "/")

	var matches []string
	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		candidate := entry.Name()
		if !byName {
			relative, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			candidate = filepath.ToSlash(relative)
		}
		if matcher.Match(candidate) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	slices.Sort(matches)
	return matches, nil
}
