// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"
)

func TestInjectedValues(t *testing.T) {
	saved := [4]string{GitCommit, GitDirty, BuildTime, Version}
	t.Cleanup(func() {
		GitCommit, GitDirty, BuildTime, Version = saved[0], saved[1], saved[2], saved[3]
	})

	GitCommit, GitDirty, BuildTime, Version = "abc1234", "true", "2026-02-10T12:00:00Z", "1.2.3"

	if got, want := Info(), "1.2.3 (abc1234-dirty, 2026-02-10T12:00:00Z)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}
	if Short() != "1.2.3" {
		t.Errorf("Short() = %q, want 1.2.3", Short())
	}
	if Commit() != "abc1234" {
		t.Errorf("Commit() = %q, want abc1234", Commit())
	}
	full := Full()
	if !strings.HasPrefix(full, Info()) || !strings.Contains(full, "Go: go") {
		t.Errorf("Full() = %q", full)
	}
}

func TestUninjectedCommitIsNeverEmpty(t *testing.T) {
	if Commit() == "" {
		t.Error("Commit() is empty without ldflags")
	}
}
