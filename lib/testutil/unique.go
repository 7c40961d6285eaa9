// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"sync/atomic"
)

var uniqueCounter atomic.Uint64

// UniqueID returns a string of the form "prefix-N" where N is a
// monotonically increasing integer. Fixture helpers use it to name
// archives so that tests sharing a directory never collide.
//
//	name := testutil.UniqueID("archive") // "archive-1", "archive-2", ...
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, uniqueCounter.Add(1))
}
