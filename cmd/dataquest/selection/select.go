// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package selection

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/montanaflynn/stats"

	"github.com/dataquest-foundation/dataquest/cmd/dataquest/cli"
	"github.com/dataquest-foundation/dataquest/lib/archive"
	"github.com/dataquest-foundation/dataquest/lib/curate"
	"github.com/dataquest-foundation/dataquest/lib/interest"
	"github.com/dataquest-foundation/dataquest/lib/manifest"
	"github.com/dataquest-foundation/dataquest/lib/normcache"
	"github.com/dataquest-foundation/dataquest/lib/relevance"
	"github.com/dataquest-foundation/dataquest/lib/textnorm"
)

type selectParams struct {
	cli.JSONOutput
	cli.ConfigParams
	InputDir string `json:"input_dir" flag:"input-dir,i" desc:"directory containing manifest CSV files (required)"`
	Glob     string `json:"glob"      flag:"glob"        desc:"manifest file name pattern, matched recursively" default:"*.csv"`
	Interest string `json:"interest"  flag:"interest"    desc:"research-interest file" default:"config.json"`
	Workers  int    `json:"workers"   flag:"workers"     desc:"concurrent article reads (default: pipeline.workers)"`
	NoCache  bool   `json:"no_cache"  flag:"no-cache"    desc:"skip the normalization cache even if enabled"`
}

// Command returns the "select" command.
func Command() *cli.Command {
	var params selectParams

	return &cli.Command{
		Name:    "select",
		Summary: "Mark the articles relevant to a research interest",
		Description: `Score every article referenced by each manifest against the keywords
of the research interest and mark the chosen rows.

An article whose title contains a keyword is selected outright. The
remaining bodies are weighted by TF-IDF over the manifest's own
collection and ranked by cosine similarity to the keywords; the
article_selector rule (threshold or num_articles) picks among them.

Each manifest is rewritten in place with a selected column of 1/0.
Unreadable archives are reported and never selected.`,
		Usage: "dataquest select --input-dir DIR [--glob PATTERN] [--interest FILE] [flags]",
		Examples: []cli.Example{
			{
				Description: "Select within every period bucket",
				Command:     "dataquest select --input-dir periods --interest config.json",
			},
			{
				Description: "Process only the 1990s with eight readers",
				Command:     "dataquest select -i periods --glob 'articles_199*.csv' --workers 8",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			if params.InputDir == "" {
				return fmt.Errorf("--input-dir is required")
			}

			environment, err := params.Environment("select")
			if err != nil {
				return err
			}

			interestConfig, err := interest.ReadFile(params.Interest)
			if err != nil {
				return err
			}
			if err := interestConfig.ValidateForSelection(); err != nil {
				return fmt.Errorf("%s: %w", params.Interest, err)
			}
			selection, err := interestConfig.Selection()
			if err != nil {
				return err
			}

			request := Request{
				InputDir:  params.InputDir,
				Glob:      params.Glob,
				Keywords:  interestConfig.Keywords(),
				Selection: selection,
				Workers:   params.Workers,
				UseCache:  environment.Config.Pipeline.UseCache && !params.NoCache,
				Progress:  os.Stderr,
			}
			results, err := Run(ctx, environment, request)
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(os.Stdout, results); done {
				if err != nil {
					return err
				}
			} else if err := writeSummary(os.Stdout, results); err != nil {
				return err
			}

			for _, result := range results {
				if result.Error != "" {
					return &cli.ExitError{Code: 1}
				}
			}
			return nil
		},
	}
}

// Request describes one select invocation.
type Request struct {
	InputDir  string
	Glob      string
	Keywords  []string
	Selection relevance.SelectionConfig

	// Workers overrides pipeline.workers when positive.
	Workers int

	UseCache bool

	// Progress, if a terminal, shows a bar per manifest.
	Progress io.Writer
}

// ScoreSummary describes the similarity scores of one run.
type ScoreSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// ManifestResult is the outcome for one manifest.
type ManifestResult struct {
	Manifest     string       `json:"manifest"`
	RunID        string       `json:"run_id,omitempty"`
	Rows         int          `json:"rows"`
	Selected     int          `json:"selected"`
	TitleMatches int          `json:"title_matches"`
	Failures     int          `json:"failures"`
	EmptyBodies  int          `json:"empty_bodies"`
	CacheHits    int          `json:"cache_hits"`
	Scores       ScoreSummary `json:"scores"`
	Error        string       `json:"error,omitempty"`
}

// Run selects within every manifest under request.InputDir. Setup
// failures (no manifests directory, model, cache, configuration) are
// returned as errors; per-manifest failures are recorded in the
// results.
func Run(ctx context.Context, environment *cli.Environment, request Request) ([]ManifestResult, error) {
	logger := environment.Logger
	found, err := cli.FindFiles(request.InputDir, request.Glob)
	if err != nil {
		return nil, err
	}
	// A labeling export under the input tree matches *.csv but is not a
	// manifest; rewriting it would add a selected column to it.
	paths := found[:0]
	for _, path := range found {
		if filepath.Base(path) == manifest.LabelFileName {
			logger.Debug("skipping labeling export", "path", path)
			continue
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		logger.Warn("no manifests matched", "dir", request.InputDir, "glob", request.Glob)
		return nil, nil
	}

	model, err := environment.LoadModel(ctx)
	if err != nil {
		return nil, err
	}
	space, err := environment.Config.VectorSpaceOptions()
	if err != nil {
		return nil, err
	}

	deps := curate.Deps{
		Normalizer: textnorm.New(model),
		Reader: archive.NewReader(archive.Options{
			CacheSize: environment.Config.Pipeline.ArchiveCache,
			Logger:    logger,
		}),
		Logger: logger,
	}
	if request.UseCache {
		if err := environment.Config.EnsurePaths(); err != nil {
			return nil, err
		}
		cache, err := normcache.Open(normcache.Config{
			Path:   environment.Config.CachePath(),
			Logger: logger,
		})
		if err != nil {
			return nil, err
		}
		defer cache.Close()
		deps.Cache = cache
	}

	workers := environment.Config.Pipeline.Workers
	if request.Workers > 0 {
		workers = request.Workers
	}

	var results []ManifestResult
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		bar := cli.NewProgress(progressWriter(request.Progress), filepath.Base(path))
		pipeline, err := curate.New(deps, curate.Options{
			Workers:  workers,
			Space:    space,
			Progress: bar.Update,
		})
		if err != nil {
			return nil, err
		}

		result, err := selectManifest(ctx, pipeline, path, request)
		bar.Done()
		if err != nil {
			if ctx.Err() != nil {
				return results, err
			}
			logger.Error("manifest selection failed", "manifest", path, "error", err)
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results, nil
}

func progressWriter(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// selectManifest runs the pipeline over one manifest and rewrites it.
func selectManifest(ctx context.Context, pipeline *curate.Pipeline, path string, request Request) (ManifestResult, error) {
	result := ManifestResult{Manifest: path}

	table, err := manifest.Read(path)
	if err != nil {
		return result, err
	}
	rows, err := table.Rows()
	if err != nil {
		return result, fmt.Errorf("%s: %w", path, err)
	}
	result.Rows = len(rows)

	report, err := pipeline.Run(ctx, rows, request.Keywords, request.Selection)
	if err != nil {
		return result, err
	}
	result.RunID = report.RunID
	result.Selected = len(report.Selected)
	result.TitleMatches = len(report.TitleMatches)
	result.Failures = len(report.Failures)
	result.EmptyBodies = len(report.EmptyBodies)
	result.CacheHits = report.CacheHits
	result.Scores = summarize(report.Scores)

	if err := table.SetSelected(report.Selected); err != nil {
		return result, err
	}
	if err := table.Write(path); err != nil {
		return result, fmt.Errorf("writing %s: %w", path, err)
	}
	return result, nil
}

func summarize(scores []curate.Score) ScoreSummary {
	if len(scores) == 0 {
		return ScoreSummary{}
	}
	data := make(stats.Float64Data, len(scores))
	for i, score := range scores {
		data[i] = score.Score
	}
	summary := ScoreSummary{Count: len(data)}
	summary.Mean, _ = data.Mean()
	summary.Median, _ = data.Median()
	summary.Max, _ = data.Max()
	return summary
}

func writeSummary(w io.Writer, results []ManifestResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "no manifests matched")
		return err
	}
	for _, result := range results {
		fields := []cli.Field{
			{Label: "rows", Value: result.Rows},
			{Label: "selected", Value: result.Selected},
			{Label: "title matches", Value: result.TitleMatches},
			{Label: "unreadable", Value: result.Failures},
		}
		if result.Scores.Count > 0 {
			fields = append(fields, cli.Field{
				Label: "scores",
				Value: fmt.Sprintf("n=%d mean=%.3f median=%.3f max=%.3f",
					result.Scores.Count, result.Scores.Mean, result.Scores.Median, result.Scores.Max),
			})
		}
		if result.Error != "" {
			fields = append(fields, cli.Field{Label: "error", Value: cli.Warning(result.Error)})
		}
		if err := cli.WriteFields(w, result.Manifest, fields); err != nil {
			return err
		}
	}
	return nil
}
