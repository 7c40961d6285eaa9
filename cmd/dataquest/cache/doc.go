// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package cache implements "dataquest cache", which reports on and
// prunes the normalization cache that "select" fills when
// pipeline.use_cache is enabled.
package cache
