// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"abc", "ab", 1},
		{"ab", "abc", 1},
		{"abc", "bac", 2},
		{"kitten", "sitting", 3},
		{"select", "slect", 1},
		{"categorize", "categorise", 1},
		{"normalize", "nromalize", 2},
	}

	for _, test := range tests {
		got := levenshtein(test.a, test.b)
		if got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
		if reverse := levenshtein(test.b, test.a); reverse != got {
			t.Errorf("levenshtein(%q, %q) = %d, but reverse = %d", test.a, test.b, got, reverse)
		}
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{
		{Name: "select"},
		{Name: "categorize"},
		{Name: "export"},
		{Name: "model"},
		{Name: "version"},
	}

	tests := []struct {
		input string
		want  string
	}{
		{"slect", "select"},
		{"selectt", "select"},
		{"exprot", "export"},
		{"modle", "model"},
		{"vrsion", "version"},
		{"zzzzzzzzz", ""},
		{"q", ""},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			if got := suggestCommand(test.input, commands); got != test.want {
				t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
			}
		})
	}
}

func TestSuggestFlag(t *testing.T) {
	makeFlagSet := func() *pflag.FlagSet {
		flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flagSet.String("input-dir", "", "")
		flagSet.String("output-dir", "", "")
		flagSet.String("interest", "", "")
		flagSet.BoolP("json", "j", false, "")
		return flagSet
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"double dash typo", []string{"--inptu-dir", "x"}, "--input-dir"},
		{"single dash typo", []string{"-intrest"}, "--interest"},
		{"equals form", []string{"--ouput-dir=out"}, "--output-dir"},
		{"known flags skipped", []string{"--json", "-j", "--jsno"}, "--json"},
		{"nothing close", []string{"--zzzzzzzzz"}, ""},
		{"no flags", []string{"positional"}, ""},
		{"after terminator", []string{"--", "--jsno"}, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := suggestFlag(test.args, makeFlagSet()); got != test.want {
				t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
			}
		})
	}
}
