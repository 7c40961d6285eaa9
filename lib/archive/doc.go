// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive reads individual articles out of compressed
// multi-article news archives.
//
// An archive is a JSON document of the form
//
//	{"articles": {"<id>": {"title": "...", "body": ["para", ...]}}}
//
// compressed with gzip, zstd or LZ4 (frame format), or stored plain.
// The compression is detected from the leading magic bytes, not from
// the file name.
//
// [Reader.Read] never fails the caller: every outcome is a [Result]
// that is either a success carrying the title and body or a failure
// carrying a [Reason]. A successful read with an empty body is still a
// success. Failures are logged once, at warn level, with the archive
// path and article id.
//
// Manifests usually list many articles per archive, so a Reader keeps
// a small FIFO cache of decoded archives and collapses concurrent
// first reads of the same archive into one decode.
package archive
