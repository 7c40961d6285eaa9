// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Article is one archive entry.
type Article struct {
	Title string   `json:"title"`
	Body  []string `json:"body"`
}

// Container formats accepted by [WriteArchive].
const (
	Gzip  = "gzip"
	Zstd  = "zstd"
	LZ4   = "lz4"
	Plain = "plain"
)

// WriteArchive writes articles as an archive document into dir using
// the given container format and returns the file path.
func WriteArchive(t testing.TB, dir, format string, articles map[string]Article) string {
	t.Helper()

	content, err := json.Marshal(map[string]any{"articles": articles})
	if err != nil {
		t.Fatalf("encoding archive: %v", err)
	}
	return WriteCompressed(t, dir, format, content)
}

// WriteCompressed writes raw content into dir wrapped in the given
// container format and returns the file path. Use it for archives
// whose JSON is deliberately malformed.
func WriteCompressed(t testing.TB, dir, format string, content []byte) string {
	t.Helper()

	var buffer bytes.Buffer
	switch format {
	case Gzip:
		writer := gzip.NewWriter(&buffer)
		if _, err := writer.Write(content); err != nil {
			t.Fatalf("gzip write: %v", err)
		}
		if err := writer.Close(); err != nil {
			t.Fatalf("gzip close: %v", err)
		}
	case Zstd:
		encoder, err := zstd.NewWriter(&buffer)
		if err != nil {
			t.Fatalf("zstd writer: %v", err)
		}
		if _, err := encoder.Write(content); err != nil {
			t.Fatalf("zstd write: %v", err)
		}
		if err := encoder.Close(); err != nil {
			t.Fatalf("zstd close: %v", err)
		}
	case LZ4:
		writer := lz4.NewWriter(&buffer)
		if _, err := writer.Write(content); err != nil {
			t.Fatalf("lz4 write: %v", err)
		}
		if err := writer.Close(); err != nil {
			t.Fatalf("lz4 close: %v", err)
		}
	case Plain:
		buffer.Write(content)
	default:
		t.Fatalf("unknown archive format %q", format)
	}

	path := filepath.Join(dir, UniqueID("archive")+".json."+format)
	if err := os.WriteFile(path, buffer.Bytes(), 0o644); err != nil {
		t.Fatalf("writing archive: %v", err)
	}
	return path
}
