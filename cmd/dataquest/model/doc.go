// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package model implements "dataquest model", which installs and
// describes the language model used for tokenization, stopword
// removal and lemmatization.
//
// Models live in paths.models as compressed CBOR files. "install"
// compiles the configured model from its YAML source (embedded in the
// binary, or fetched from model.source_url) and writes it there;
// "show" describes what is installed.
package model
