// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package categorize implements "dataquest categorize", which buckets
// article documents by publication year or decade into period
// manifests (articles_<period>.csv) for the select step.
package categorize
