// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test fixtures for dataquest
// packages.
//
// [WriteArchive] writes a news archive in any of the supported
// container formats, and [WriteManifest] writes a manifest CSV that
// points at archive articles. [UniqueID] generates distinct names for
// fixtures created within one test.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no dataquest-internal dependencies.
package testutil
