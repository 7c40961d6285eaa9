// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package selection implements "dataquest select": it runs the
// relevance pipeline over every manifest in a directory and records
// the outcome in each manifest's selected column.
//
// Keywords and the selection rule come from the research-interest
// file (config.json). Manifests are processed one after another; rows
// within a manifest are read concurrently. A manifest that cannot be
// read or written is reported and skipped, and the command exits
// non-zero after processing the rest.
package selection
