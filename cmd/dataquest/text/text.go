// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dataquest-foundation/dataquest/cmd/dataquest/cli"
	"github.com/dataquest-foundation/dataquest/lib/textnorm"
)

// maxLineBytes bounds one input line. Article bodies joined onto a
// single line can be long.
const maxLineBytes = 16 << 20

// Command returns the "text" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "text",
		Summary: "Normalize or clean text line by line",
		Description: `Filter text through the normalizer. Input is read from the named file,
or from stdin when no file (or "-") is given; each input line produces
one output line.`,
		Subcommands: []*cli.Command{
			filterCommand("normalize", "Reduce each line to lower-cased lemmas without stopwords",
				func(n *textnorm.Normalizer) func(string) string { return n.Normalize }),
			filterCommand("clean", "Strip non-standard characters and collapse whitespace",
				func(n *textnorm.Normalizer) func(string) string { return n.Clean }),
		},
	}
}

type filterParams struct {
	cli.ConfigParams
}

func filterCommand(name, summary string, choose func(*textnorm.Normalizer) func(string) string) *cli.Command {
	var params filterParams

	return &cli.Command{
		Name:    name,
		Summary: summary,
		Usage:   fmt.Sprintf("dataquest text %s [FILE]", name),
		Examples: []cli.Example{
			{
				Description: "Show the normalized form of a title",
				Command:     fmt.Sprintf("echo 'Climate Scientists Warn' | dataquest text %s", name),
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("unexpected argument %q", args[1])
			}
			environment, err := params.Environment("text " + name)
			if err != nil {
				return err
			}
			model, err := environment.LoadModel(ctx)
			if err != nil {
				return err
			}

			input := io.Reader(os.Stdin)
			if len(args) == 1 && args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer file.Close()
				input = file
			}
			return Filter(input, os.Stdout, choose(textnorm.New(model)))
		},
	}
}

// Filter writes transform(line) for every line of input.
func Filter(input io.Reader, output io.Writer, transform func(string) string) error {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	writer := bufio.NewWriter(output)
	for scanner.Scan() {
		if _, err := fmt.Fprintln(writer, transform(scanner.Text())); err != nil {
			return err
		}
	}
	// Lines already transformed are written out even when reading fails.
	flushErr := writer.Flush()
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return flushErr
}
