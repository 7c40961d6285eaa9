// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package langmodel provides the language model used to tokenize and
// lemmatize article text.
//
// A [Model] is an immutable handle: a stop-word set, a lemma lookup
// table, and a tokenizer. It is built once by the composition root
// (the CLI command or a test) and injected into every consumer, so two
// normalizers built from the same handle always agree on tokenization.
// There is no process-wide model.
//
// Models are distributed as YAML sources and installed into a models
// directory as zstd-compressed CBOR files named "<name>.dqm". [Load]
// opens an installed model and, when that fails, asks an [Installer]
// to install it exactly once before retrying. A second failure is
// returned to the caller; text is never passed through unnormalized.
//
// Construction validates the lemma table so that lemmatization is
// stable under repetition: every lemma is a fixed point of the table,
// lemmas are lower-case letter runs, and no content word lemmatizes to
// a stop-word. These constraints are what make text normalization
// idempotent.
package langmodel
