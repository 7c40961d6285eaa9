// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
)

// progressWidth is the bar width in cells, excluding the label.
const progressWidth = 40

// Progress draws a single-line progress bar. It renders only when its
// writer is a terminal (or when forced); otherwise every method is a
// no-op, so logs piped to files stay clean. Safe for concurrent use.
type Progress struct {
	writer  io.Writer
	label   string
	enabled bool

	mutex    sync.Mutex
	bar      progress.Model
	drawn    bool
	lastDone int
}

// NewProgress returns a progress bar labelled label that draws on w
// when w is a terminal.
func NewProgress(w io.Writer, label string) *Progress {
	return newProgress(w, label, IsTerminal(w))
}

func newProgress(w io.Writer, label string, enabled bool) *Progress {
	return &Progress{
		writer:   w,
		label:    label,
		enabled:  enabled,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth)),
		lastDone: -1,
	}
}

// Update redraws the bar for done of total items. It matches the
// func(done, total int) callbacks of the pipeline packages.
func (p *Progress) Update(done, total int) {
	if !p.enabled || total <= 0 {
		return
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if done == p.lastDone {
		return
	}
	p.lastDone = done
	fraction := float64(done) / float64(total)
	fmt.Fprintf(p.writer, "\r%s %s %d/%d", p.label, p.bar.ViewAs(fraction), done, total)
	p.drawn = true
}

// Done ends the bar's line if anything was drawn.
func (p *Progress) Done() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.drawn {
		fmt.Fprintln(p.writer)
		p.drawn = false
	}
	p.lastDone = -1
}
