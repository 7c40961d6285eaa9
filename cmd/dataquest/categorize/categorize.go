// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package categorize

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/dataquest-foundation/dataquest/cmd/dataquest/cli"
	"github.com/dataquest-foundation/dataquest/lib/manifest"
	"github.com/dataquest-foundation/dataquest/lib/temporal"
)

type categorizeParams struct {
	cli.JSONOutput
	cli.ConfigParams
	InputDir  string `json:"input_dir"  flag:"input-dir,i"  desc:"directory containing article documents (required)"`
	OutputDir string `json:"output_dir" flag:"output-dir,o" desc:"directory for period manifests (required)"`
	Period    string `json:"period"     flag:"period"       desc:"bucket size: year or decade" default:"year"`
	Glob      string `json:"glob"       flag:"glob"         desc:"document file pattern" default:"*.json"`
	Workers   int    `json:"workers"    flag:"workers"      desc:"concurrent document reads (default: pipeline.workers)"`
}

// Command returns the "categorize" command.
func Command() *cli.Command {
	var params categorizeParams

	return &cli.Command{
		Name:    "categorize",
		Summary: "Bucket article documents by publication period",
		Description: `Read every article document under the input directory and append
its file_path and article_id to the manifest for its period.

Documents carry a "Date" field in YYYY-MM-DD form. With --period year
an article dated 2015-03-01 goes to articles_2015.csv; with --period
decade it goes to articles_2010.csv. Documents with a missing or
malformed date are reported and skipped.

Rows are appended, so running twice over the same input duplicates
them.`,
		Usage: "dataquest categorize --input-dir DIR --output-dir DIR [--period year|decade] [flags]",
		Examples: []cli.Example{
			{
				Description: "Bucket documents by decade",
				Command:     "dataquest categorize -i documents -o periods --period decade",
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
			period, err := temporal.ParsePeriod(params.Period)
			if err != nil {
				return err
			}

			environment, err := params.Environment("categorize")
			if err != nil {
				return err
			}
			workers := environment.Config.Pipeline.Workers
			if params.Workers > 0 {
				workers = params.Workers
			}

			summary, err := Run(ctx, environment, Request{
				InputDir:  params.InputDir,
				OutputDir: params.OutputDir,
				Glob:      params.Glob,
				Period:    period,
				Workers:   workers,
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

// Request describes one categorize invocation.
type Request struct {
	InputDir  string
	OutputDir string
	Glob      string
	Period    temporal.Period
	Workers   int
}

// PeriodCount is the number of rows appended to one period manifest.
type PeriodCount struct {
	Period   int    `json:"period"`
	Manifest string `json:"manifest"`
	Rows     int    `json:"rows"`
}

// Summary is the outcome of a categorize run.
type Summary struct {
	Period      string        `json:"period"`
	Documents   int           `json:"documents"`
	Categorized int           `json:"categorized"`
	Skipped     int           `json:"skipped"`
	Periods     []PeriodCount `json:"periods"`
}

// Run categorizes the documents under request.InputDir and appends a
// row per document to its period manifest in request.OutputDir. Rows
// are appended in document path order regardless of how reads are
// scheduled.
func Run(ctx context.Context, environment *cli.Environment, request Request) (*Summary, error) {
	logger := environment.Logger
	paths, err := cli.FindFiles(request.InputDir, request.Glob)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(request.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	outcomes, err := temporal.CategorizeFiles(ctx, paths, request.Period, request.Workers)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Period: request.Period.String(), Documents: len(paths)}
	counts := make(map[int]*PeriodCount)
	for i, outcome := range outcomes {
		if outcome.Err != nil {
			logger.Warn("skipping document", "path", paths[i], "error", outcome.Err)
			summary.Skipped++
			continue
		}
		bucket := outcome.Bucket
		manifestPath, err := manifest.AppendRow(request.OutputDir, bucket.Period, manifest.Row{
			FilePath:  bucket.FilePath,
			ArticleID: bucket.ArticleID,
		})
		if err != nil {
			return summary, err
		}
		count, ok := counts[bucket.Period]
		if !ok {
			count = &PeriodCount{Period: bucket.Period, Manifest: manifestPath}
			counts[bucket.Period] = count
		}
		count.Rows++
		summary.Categorized++
	}

	for _, count := range counts {
		summary.Periods = append(summary.Periods, *count)
	}
	slices.SortFunc(summary.Periods, func(a, b PeriodCount) int { return a.Period - b.Period })

	logger.Info("categorization finished",
		"documents", summary.Documents,
		"categorized", summary.Categorized,
		"skipped", summary.Skipped,
		"periods", len(summary.Periods),
	)
	return summary, nil
}

func writeSummary(w io.Writer, summary *Summary) error {
	fields := []cli.Field{
		{Label: "documents", Value: summary.Documents},
		{Label: "categorized", Value: summary.Categorized},
	}
	if summary.Skipped > 0 {
		fields = append(fields, cli.Field{Label: "skipped", Value: cli.Warning(strconv.Itoa(summary.Skipped))})
	}
	for _, count := range summary.Periods {
		fields = append(fields, cli.Field{Label: strconv.Itoa(count.Period), Value: fmt.Sprintf("%d rows  %s", count.Rows, count.Manifest)})
	}
	return cli.WriteFields(w, "Categorized by "+summary.Period, fields)
}
