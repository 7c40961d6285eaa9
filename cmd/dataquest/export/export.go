// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dataquest-foundation/dataquest/cmd/dataquest/cli"
	"github.com/dataquest-foundation/dataquest/lib/archive"
	"github.com/dataquest-foundation/dataquest/lib/interest"
	"github.com/dataquest-foundation/dataquest/lib/manifest"
)

type exportParams struct {
	cli.JSONOutput
	cli.ConfigParams
	InputDir  string `json:"input_dir"  flag:"input-dir,i"  desc:"directory containing selected manifests (required)"`
	OutputDir string `json:"output_dir" flag:"output-dir,o" desc:"directory for articles_to_label.csv (required)"`
	Glob      string `json:"glob"       flag:"glob"         desc:"manifest file pattern" default:"*.csv"`
	Interest  string `json:"interest"   flag:"interest"     desc:"research-interest file (for output_unit)" default:"config.json"`
}

// Command returns the "export" command.
func Command() *cli.Command {
	var params exportParams

	return &cli.Command{
		Name:    "export",
		Summary: "Write the selected articles to a CSV for labeling",
		Description: `Collect the rows marked selected in every manifest, read their titles
and bodies from the archives and write articles_to_label.csv with an
empty label column.

With output_unit "paragraph" in the research interest each paragraph
is its own row; otherwise each article is one row with its paragraphs
joined. An article selected in several manifests is exported once.`,
		Usage: "dataquest export --input-dir DIR --output-dir DIR [--interest FILE] [flags]",
		Examples: []cli.Example{
			{
				Description: "Export the selection for labeling",
				Command:     "dataquest export -i periods -o labeling",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			if params.InputDir == "" || params.OutputDir == "" {
				return fmt.Errorf("--input-dir and --output-dir are required")
			}

			environment, err := params.Environment("export")
			if err != nil {
				return err
			}
			interestConfig, err := interest.ReadFile(params.Interest)
			if err != nil {
				return err
			}
			unit, err := interestConfig.Unit()
			if err != nil {
				return fmt.Errorf("%s: %w", params.Interest, err)
			}

			summary, err := Run(ctx, environment, Request{
				InputDir:  params.InputDir,
				OutputDir: params.OutputDir,
				Glob:      params.Glob,
				Unit:      unit,
			})
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(os.Stdout, summary); done {
				return err
			}
			return writeSummary(os.Stdout, summary)
		},
	}
}

// Request describes one export invocation.
type Request struct {
	InputDir  string
	OutputDir string
	Glob      string
	Unit      interest.OutputUnit
}

// Summary is the outcome of an export.
type Summary struct {
	Output    string              `json:"output"`
	Unit      interest.OutputUnit `json:"unit"`
	Manifests int                 `json:"manifests"`
	Articles  int                 `json:"articles"`
	Rows      int                 `json:"rows"`
	Skipped   int                 `json:"skipped"`
}

type articleKey struct {
	path string
	id   string
}

// Run writes the label set for the manifests under request.InputDir.
func Run(ctx context.Context, environment *cli.Environment, request Request) (*Summary, error) {
	logger := environment.Logger
	unit := request.Unit
	if unit == "" {
		unit = interest.UnitArticle
	}

	paths, err := cli.FindFiles(request.InputDir, request.Glob)
	if err != nil {
		return nil, err
	}
	reader := archive.NewReader(archive.Options{
		Paragraphs: unit == interest.UnitParagraph,
		CacheSize:  environment.Config.Pipeline.ArchiveCache,
		Logger:     logger,
	})

	summary := &Summary{
		Output:    filepath.Join(request.OutputDir, manifest.LabelFileName),
		Unit:      unit,
		Manifests: len(paths),
	}
	seen := make(map[articleKey]struct{})
	var rows []manifest.LabelRow
	for _, path := range paths {
		table, err := manifest.Read(path)
		if err != nil {
			return nil, err
		}
		selected, err := table.SelectedRows()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for _, row := range selected {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			key := articleKey{path: row.FilePath, id: row.ArticleID}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			result := reader.Read(row.FilePath, row.ArticleID)
			if !result.OK() {
				summary.Skipped++
				continue
			}
			summary.Articles++
			rows = append(rows, labelRows(result, unit)...)
		}
	}
	summary.Rows = len(rows)

	if err := os.MkdirAll(request.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if err := manifest.WriteLabelSet(summary.Output, rows); err != nil {
		return nil, err
	}
	logger.Info("label set written",
		"output", summary.Output,
		"unit", string(unit),
		"articles", summary.Articles,
		"rows", summary.Rows,
		"skipped", summary.Skipped,
	)
	return summary, nil
}

// labelRows converts one article into label rows. In paragraph mode
// blank paragraphs are dropped; an article with none still yields a
// single row with an empty body so the article is not lost.
func labelRows(result archive.Result, unit interest.OutputUnit) []manifest.LabelRow {
	base := manifest.LabelRow{
		FilePath:  result.Path,
		ArticleID: result.ArticleID,
		Title:     result.Title,
	}
	if unit != interest.UnitParagraph {
		base.Body = result.Body
		return []manifest.LabelRow{base}
	}

	var rows []manifest.LabelRow
	for _, paragraph := range result.Paragraphs {
		if strings.TrimSpace(paragraph) == "" {
			continue
		}
		row := base
		row.Body = paragraph
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		rows = append(rows, base)
	}
	return rows
}

func writeSummary(w io.Writer, summary *Summary) error {
	fields := []cli.Field{
		{Label: "unit", Value: summary.Unit},
		{Label: "manifests", Value: summary.Manifests},
		{Label: "articles", Value: summary.Articles},
		{Label: "rows", Value: summary.Rows},
	}
	if summary.Skipped > 0 {
		fields = append(fields, cli.Field{Label: "unreadable", Value: cli.Warning(strconv.Itoa(summary.Skipped))})
	}
	return cli.WriteFields(w, summary.Output, fields)
}
