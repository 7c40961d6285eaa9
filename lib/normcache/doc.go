// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package normcache stores normalized article text in SQLite so that
// repeated selection runs over the same archives skip re-reading and
// re-normalizing unchanged articles.
//
// An entry is keyed by the archive path, the archive's size and
// modification time, the article id, and the language model
// fingerprint. Rewriting an archive or upgrading the model therefore
// changes the key, and stale entries are simply never read again;
// [Cache.Prune] removes entries older than a cutoff.
//
// Values are CBOR-encoded [Entry] records (lib/codec). The database is
// a zombiezen.com/go/sqlite connection pool in WAL mode; every method
// is safe for concurrent use.
package normcache
