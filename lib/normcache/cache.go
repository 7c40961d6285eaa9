// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package normcache

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/zeebo/blake3"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/dataquest-foundation/dataquest/lib/codec"
)

// Entry is the cached normalization of one article.
type Entry struct {
	// Title is the normalized title.
	Title string `cbor:"title"`

	// Body is the normalized body.
	Body string `cbor:"body"`
}

// Key identifies one cached article. Build it with [KeyFor].
type Key struct {
	digest string
}

// String returns the hex digest.
func (k Key) String() string { return k.digest }

// keyDomain is the BLAKE3 keyed-hash domain for cache keys:
// "dataquest.normcache" zero-padded to 32 bytes.
var keyDomain = [32]byte{
	'd', 'a', 't', 'a', 'q', 'u', 'e', 's', 't', '.', 'n', 'o', 'r', 'm', 'c', 'a',
	'c', 'h', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// KeyFor stats the archive at path and derives the key for articleID
// under the model with the given fingerprint and the normalization
// rules identified by normalizer.
func KeyFor(path, articleID, fingerprint, normalizer string) (Key, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Key{}, fmt.Errorf("normcache: %w", err)
	}
	hasher, err := blake3.NewKeyed(keyDomain[:])
	if err != nil {
		panic("normcache: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	// Fields are length-prefixed so no two tuples hash the same bytes.
	for _, field := range []string{
		path,
		strconv.FormatInt(info.Size(), 10),
		strconv.FormatInt(info.ModTime().UnixNano(), 10),
		articleID,
		fingerprint,
		normalizer,
	} {
		hasher.Write([]byte(strconv.Itoa(len(field)) + ":" + field))
	}
	return Key{digest: hex.EncodeToString(hasher.Sum(nil))}, nil
}

// Config holds the parameters for opening a cache.
type Config struct {
	// Path is the database file. Its directory must exist.
	Path string

	// PoolSize is the number of connections. If zero or negative,
	// defaults to max(runtime.NumCPU(), 4).
	PoolSize int

	// Logger receives open and close notices. If nil, a no-op logger
	// is used.
	Logger *slog.Logger
}

// Cache is a SQLite-backed store of normalized article text.
type Cache struct {
	pool   *sqlitex.Pool
	logger *slog.Logger
	path   string
	now    func() time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS normalized (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS normalized_created_at ON normalized (created_at);
`

// pragmas are applied to every connection. WAL lets pipeline workers
// read while another writes.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA cache_size=-8192",
	"PRAGMA temp_store=MEMORY",
}

// Open opens or creates the cache database.
func Open(config Config) (*Cache, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("normcache: Path is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	poolSize := config.PoolSize
	if poolSize <= 0 {
		poolSize = max(runtime.NumCPU(), 4)
	}

	pool, err := sqlitex.NewPool(config.Path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("normcache: opening %s: %w", config.Path, err)
	}

	logger.Info("normalization cache opened",
		"path", config.Path,
		"pool_size", poolSize,
	)
	return &Cache{pool: pool, logger: logger, path: config.Path, now: time.Now}, nil
}

func prepareConnection(conn *sqlite.Conn) error {
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("normcache: %s: %w", pragma, err)
		}
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("normcache: creating schema: %w", err)
	}
	return nil
}

// Get returns the entry for key and whether it was present.
func (c *Cache) Get(ctx context.Context, key Key) (Entry, bool, error) {
	conn, err := c.pool.Take(ctx)
	if err != nil {
		return Entry{}, false, fmt.Errorf("normcache: take: %w", err)
	}
	defer c.pool.Put(conn)

	var (
		value []byte
		found bool
	)
	err = sqlitex.Execute(conn, "SELECT value FROM normalized WHERE key = ?", &sqlitex.ExecOptions{
		Args: []any{key.digest},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value = make([]byte, stmt.ColumnLen(0))
			stmt.ColumnBytes(0, value)
			found = true
			return nil
		},
	})
	if err != nil {
		return Entry{}, false, fmt.Errorf("normcache: get: %w", err)
	}
	if !found {
		return Entry{}, false, nil
	}

	var entry Entry
	if err := codec.Unmarshal(value, &entry); err != nil {
		return Entry{}, false, fmt.Errorf("normcache: decoding entry %s: %w", key.digest, err)
	}
	return entry, true, nil
}

// Put stores entry under key, replacing any existing value.
func (c *Cache) Put(ctx context.Context, key Key, entry Entry) error {
	value, err := codec.Marshal(entry)
	if err != nil {
		return fmt.Errorf("normcache: encoding entry: %w", err)
	}

	conn, err := c.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("normcache: take: %w", err)
	}
	defer c.pool.Put(conn)

	err = sqlitex.Execute(conn,
		"INSERT OR REPLACE INTO normalized (key, value, created_at) VALUES (?, ?, ?)",
		&sqlitex.ExecOptions{Args: []any{key.digest, value, c.now().Unix()}},
	)
	if err != nil {
		return fmt.Errorf("normcache: put: %w", err)
	}
	return nil
}

// Len returns the number of stored entries.
func (c *Cache) Len(ctx context.Context) (int, error) {
	conn, err := c.pool.Take(ctx)
	if err != nil {
		return 0, fmt.Errorf("normcache: take: %w", err)
	}
	defer c.pool.Put(conn)

	var count int
	err = sqlitex.Execute(conn, "SELECT count(*) FROM normalized", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			count = stmt.ColumnInt(0)
			return nil
		},
	})
	if err != nil {
		return 0, fmt.Errorf("normcache: count: %w", err)
	}
	return count, nil
}

// Prune deletes entries created before cutoff and returns how many
// were removed.
func (c *Cache) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	conn, err := c.pool.Take(ctx)
	if err != nil {
		return 0, fmt.Errorf("normcache: take: %w", err)
	}
	defer c.pool.Put(conn)

	err = sqlitex.Execute(conn, "DELETE FROM normalized WHERE created_at < ?", &sqlitex.ExecOptions{
		Args: []any{cutoff.Unix()},
	})
	if err != nil {
		return 0, fmt.Errorf("normcache: prune: %w", err)
	}
	removed := conn.Changes()
	c.logger.Info("normalization cache pruned", "path", c.path, "removed", removed)
	return removed, nil
}

// Close closes every connection. It blocks until borrowed connections
// are returned.
func (c *Cache) Close() error {
	if err := c.pool.Close(); err != nil {
		c.logger.Error("normalization cache close error", "path", c.path, "error", err)
		return fmt.Errorf("normcache: closing %s: %w", c.path, err)
	}
	c.logger.Info("normalization cache closed", "path", c.path)
	return nil
}
