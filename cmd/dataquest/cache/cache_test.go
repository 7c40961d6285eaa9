// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dataquest-foundation/dataquest/cmd/dataquest/cli"
	"github.com/dataquest-foundation/dataquest/lib/config"
	"github.com/dataquest-foundation/dataquest/lib/normcache"
)

func testEnvironment(t *testing.T) *cli.Environment {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.Cache = filepath.Join(t.TempDir(), "cache")
	return &cli.Environment{Config: cfg, Logger: slog.New(slog.DiscardHandler)}
}

// fillCache writes count entries into the environment's cache.
func fillCache(t *testing.T, environment *cli.Environment, count int) {
	t.Helper()
	if err := os.MkdirAll(environment.Config.Paths.Cache, 0o755); err != nil {
		t.Fatal(err)
	}
	archivePath := filepath.Join(t.TempDir(), "archive.json")
	if err := os.WriteFile(archivePath, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	cache, err := normcache.Open(normcache.Config{Path: environment.Config.CachePath()})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer cache.Close()
	for i := range count {
		key, err := normcache.KeyFor(archivePath, string(rune('a'+i)), "model", "1")
		if err != nil {
			t.Fatalf("KeyFor: %v", err)
		}
		if err := cache.Put(context.Background(), key, normcache.Entry{Body: "body"}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
}

func TestDescribeMissingCache(t *testing.T) {
	environment := testEnvironment(t)
	info, err := Describe(context.Background(), environment)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if info.Exists || info.Entries != 0 {
		t.Errorf("info = %+v, want a missing cache", info)
	}
	if _, err := os.Stat(info.Path); err == nil {
		t.Error("Describe created the cache")
	}
}

func TestDescribeAndPrune(t *testing.T) {
	environment := testEnvironment(t)
	fillCache(t, environment, 3)
	ctx := context.Background()

	info, err := Describe(ctx, environment)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if !info.Exists || info.Entries != 3 {
		t.Errorf("info = %+v, want 3 entries", info)
	}

	// Nothing is older than an hour ago.
	kept, err := Prune(ctx, environment, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if kept.Removed != 0 || kept.Entries != 3 {
		t.Errorf("prune with old cutoff = %+v, want nothing removed", kept)
	}

	// Everything is older than an hour from now.
	pruned, err := Prune(ctx, environment, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if pruned.Removed != 3 || pruned.Entries != 0 {
		t.Errorf("prune with future cutoff = %+v, want all removed", pruned)
	}
}

func TestPruneMissingCache(t *testing.T) {
	result, err := Prune(context.Background(), testEnvironment(t), time.Now())
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if result.Removed != 0 {
		t.Errorf("Removed = %d, want 0", result.Removed)
	}
}
