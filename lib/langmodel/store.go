// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package langmodel

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dataquest-foundation/dataquest/lib/codec"
)

// FileExtension is the suffix of installed model files.
const FileExtension = ".dqm"

// ErrNotInstalled is returned by [Open] when the model file does not
// exist in the models directory.
var ErrNotInstalled = errors.New("langmodel: model not installed")

// Path returns the installed file path for the named model.
func Path(dir, name string) string {
	return filepath.Join(dir, name+FileExtension)
}

// Open loads an installed model from dir.
func Open(dir, name string) (*Model, error) {
	path := Path(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotInstalled, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var source Source
	if err := codec.UnmarshalCompressed(data, &source); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if source.Name != name {
		return nil, fmt.Errorf("langmodel: %s contains model %q, want %q", path, source.Name, name)
	}
	return Compile(source)
}

// Write validates source and installs it into dir, replacing any
// existing file atomically.
func Write(dir string, source Source) error {
	if err := source.Validate(); err != nil {
		return err
	}
	data, err := codec.MarshalCompressed(source.canonical())
	if err != nil {
		return fmt.Errorf("encoding model %s: %w", source.Name, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating models directory %s: %w", dir, err)
	}

	temporary, err := os.CreateTemp(dir, "."+source.Name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary model file: %w", err)
	}
	temporaryPath := temporary.Name()
	defer os.Remove(temporaryPath)

	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		return fmt.Errorf("writing %s: %w", temporaryPath, err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", temporaryPath, err)
	}
	if err := os.Rename(temporaryPath, Path(dir, source.Name)); err != nil {
		return fmt.Errorf("installing %s: %w", source.Name, err)
	}
	return nil
}
