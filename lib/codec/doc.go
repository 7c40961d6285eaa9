// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding used for dataquest's
// at-rest binary state.
//
// Two formats have a clear boundary:
//
//   - JSON for external interfaces: news archives, interest
//     configuration (config.json), filtered-article documents, and CLI
//     --json output.
//   - CBOR for internal state: installed language model files and
//     normalization cache entries.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same logical value always produces identical bytes, which is what
// makes model fingerprints stable across processes.
//
// For plain buffers:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For files that benefit from compression (installed models), the
// sealed variants wrap the CBOR bytes in a zstd frame:
//
//	data, err := codec.MarshalCompressed(value)
//	err = codec.UnmarshalCompressed(data, &value)
//
// Types persisted only as CBOR use `cbor` struct tags. Types that are
// also printed as JSON use `json` tags, which fxamacker/cbor honors as a
// fallback. Never put both tags on the same field.
package codec
