// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package normcache

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := Open(Config{Path: filepath.Join(t.TempDir(), "cache.db"), PoolSize: 4})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := cache.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return cache
}

func writeArchive(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archive.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPutGet(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()
	key, err := KeyFor(writeArchive(t, "{}"), "a1", "model-1", "1")
	if err != nil {
		t.Fatalf("KeyFor: %v", err)
	}

	if _, found, err := cache.Get(ctx, key); err != nil || found {
		t.Fatalf("Get before Put = found %v, err %v", found, err)
	}

	want := Entry{Title: "election result", Body: "count turnout high"}
	if err := cache.Put(ctx, key, want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, found, err := cache.Get(ctx, key)
	if err != nil || !found {
		t.Fatalf("Get = found %v, err %v", found, err)
	}
	if got != want {
		t.Errorf("Get = %+v, want %+v", got, want)
	}

	// Empty strings round-trip as a hit, not a miss.
	empty, _ := KeyFor(writeArchive(t, "{}"), "a2", "model-1", "1")
	if err := cache.Put(ctx, empty, Entry{}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, found, err := cache.Get(ctx, empty); err != nil || !found {
		t.Errorf("Get empty entry = found %v, err %v", found, err)
	}
}

func TestKeyForDistinguishesInputs(t *testing.T) {
	path := writeArchive(t, "{}")
	base, err := KeyFor(path, "a1", "model-1", "1")
	if err != nil {
		t.Fatalf("KeyFor: %v", err)
	}
	same, _ := KeyFor(path, "a1", "model-1", "1")
	if base != same {
		t.Error("KeyFor is not deterministic")
	}
	otherArticle, _ := KeyFor(path, "a2", "model-1", "1")
	otherModel, _ := KeyFor(path, "a1", "model-2", "1")
	otherRules, _ := KeyFor(path, "a1", "model-1", "2")
	if base == otherArticle || base == otherModel || base == otherRules {
		t.Error("KeyFor collides across article, model or normalizer version")
	}

	// Rewriting the archive with different content changes its size.
	if err := os.WriteFile(path, []byte(`{"articles": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	rewritten, _ := KeyFor(path, "a1", "model-1", "1")
	if rewritten == base {
		t.Error("KeyFor unchanged after archive rewrite")
	}

	if _, err := KeyFor(filepath.Join(t.TempDir(), "absent"), "a1", "m", "1"); err == nil {
		t.Error("KeyFor succeeded for missing archive")
	}
}

func TestPrune(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()
	path := writeArchive(t, "{}")

	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return past }
	old, _ := KeyFor(path, "old", "m", "1")
	if err := cache.Put(ctx, old, Entry{Body: "old"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	cache.now = func() time.Time { return past.Add(48 * time.Hour) }
	recent, _ := KeyFor(path, "recent", "m", "1")
	if err := cache.Put(ctx, recent, Entry{Body: "recent"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	removed, err := cache.Prune(ctx, past.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Errorf("Prune removed %d, want 1", removed)
	}
	if count, _ := cache.Len(ctx); count != 1 {
		t.Errorf("Len = %d, want 1", count)
	}
	if _, found, _ := cache.Get(ctx, recent); !found {
		t.Error("recent entry was pruned")
	}
}

func TestConcurrentAccess(t *testing.T) {
	cache := openTestCache(t)
	ctx := context.Background()
	path := writeArchive(t, "{}")

	var waitGroup sync.WaitGroup
	for i := range 16 {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			key, err := KeyFor(path, string(rune('a'+i)), "m", "1")
			if err != nil {
				t.Errorf("KeyFor: %v", err)
				return
			}
			if err := cache.Put(ctx, key, Entry{Body: "body"}); err != nil {
				t.Errorf("Put: %v", err)
				return
			}
			if _, found, err := cache.Get(ctx, key); err != nil || !found {
				t.Errorf("Get = found %v, err %v", found, err)
			}
		}()
	}
	waitGroup.Wait()

	if count, err := cache.Len(ctx); err != nil || count != 16 {
		t.Errorf("Len = %d, %v, want 16", count, err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Error("Open accepted empty path")
	}
}
