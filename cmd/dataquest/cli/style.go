// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Heading renders a section heading. Lipgloss drops the styling when
// stdout has no color support.
func Heading(text string) string {
	return headingStyle.Render(text)
}

// Warning renders text in the warning color.
func Warning(text string) string {
	return warnStyle.Render(text)
}

// Field is one label/value line of a summary.
type Field struct {
	Label string
	Value any
}

// WriteFields writes a heading followed by aligned label/value lines.
func WriteFields(w io.Writer, heading string, fields []Field) error {
	if heading != "" {
		if _, err := fmt.Fprintln(w, Heading(heading)); err != nil {
			return err
		}
	}
	tw := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
	for _, field := range fields {
		fmt.Fprintf(tw, "  %s\t%v\n", labelStyle.Render(field.Label+":"), field.Value)
	}
	return tw.Flush()
}
