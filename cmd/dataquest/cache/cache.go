// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dataquest-foundation/dataquest/cmd/dataquest/cli"
	"github.com/dataquest-foundation/dataquest/lib/normcache"
)

// Command returns the "cache" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "cache",
		Summary: "Inspect and prune the normalization cache",
		Description: `The normalization cache keeps the normalized title and body of every
article "select" has scored, keyed by archive, article and language
model. Entries for rewritten archives or a different model are never
hit again; prune removes entries older than a cutoff.`,
		Subcommands: []*cli.Command{
			infoCommand(),
			pruneCommand(),
		},
	}
}

// Info describes the cache database.
type Info struct {
	Path    string    `json:"path"`
	Exists  bool      `json:"exists"`
	Entries int       `json:"entries"`
	Size    int64     `json:"size"`
	Updated time.Time `json:"updated,omitzero"`
}

type infoParams struct {
	cli.JSONOutput
	cli.ConfigParams
}

func infoCommand() *cli.Command {
	var params infoParams

	return &cli.Command{
		Name:    "info",
		Summary: "Show the cache location and size",
		Usage:   "dataquest cache info [flags]",
		Params:  func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			environment, err := params.Environment("cache info")
			if err != nil {
				return err
			}
			info, err := Describe(ctx, environment)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(os.Stdout, info); done {
				return err
			}
			fields := []cli.Field{{Label: "path", Value: info.Path}}
			if !info.Exists {
				fields = append(fields, cli.Field{Label: "status", Value: "not created yet"})
			} else {
				fields = append(fields,
					cli.Field{Label: "entries", Value: humanize.Comma(int64(info.Entries))},
					cli.Field{Label: "size", Value: humanize.Bytes(uint64(info.Size))},
					cli.Field{Label: "updated", Value: humanize.Time(info.Updated)},
				)
			}
			return cli.WriteFields(os.Stdout, "Normalization cache", fields)
		},
	}
}

type pruneParams struct {
	cli.JSONOutput
	cli.ConfigParams
	OlderThan time.Duration `json:"older_than" flag:"older-than" desc:"remove entries written longer ago than this" default:"720h"`
}

// PruneResult is the outcome of a prune.
type PruneResult struct {
	Path    string    `json:"path"`
	Cutoff  time.Time `json:"cutoff"`
	Removed int       `json:"removed"`
	Entries int       `json:"entries"`
}

func pruneCommand() *cli.Command {
	var params pruneParams

	return &cli.Command{
		Name:    "prune",
		Summary: "Remove old cache entries",
		Usage:   "dataquest cache prune [--older-than DURATION] [flags]",
		Examples: []cli.Example{
			{
				Description: "Drop entries older than a week",
				Command:     "dataquest cache prune --older-than 168h",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			if params.OlderThan < 0 {
				return fmt.Errorf("--older-than must not be negative")
			}
			environment, err := params.Environment("cache prune")
			if err != nil {
				return err
			}
			result, err := Prune(ctx, environment, time.Now().Add(-params.OlderThan))
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(os.Stdout, result); done {
				return err
			}
			return cli.WriteFields(os.Stdout, "Pruned "+result.Path, []cli.Field{
				{Label: "removed", Value: humanize.Comma(int64(result.Removed))},
				{Label: "remaining", Value: humanize.Comma(int64(result.Entries))},
			})
		},
	}
}

// Describe reports on the cache without creating it.
func Describe(ctx context.Context, environment *cli.Environment) (*Info, error) {
	info := &Info{Path: environment.Config.CachePath()}
	stat, err := os.Stat(info.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return info, nil
	}
	if err != nil {
		return nil, err
	}
	info.Exists = true
	info.Size = stat.Size()
	info.Updated = stat.ModTime()

	cache, err := normcache.Open(normcache.Config{Path: info.Path, Logger: environment.Logger})
	if err != nil {
		return nil, err
	}
	defer cache.Close()
	if info.Entries, err = cache.Len(ctx); err != nil {
		return nil, err
	}
	return info, nil
}

// Prune removes entries written before cutoff. A cache that does not
// exist yet has nothing to prune.
func Prune(ctx context.Context, environment *cli.Environment, cutoff time.Time) (*PruneResult, error) {
	result := &PruneResult{Path: environment.Config.CachePath(), Cutoff: cutoff}
	if _, err := os.Stat(result.Path); errors.Is(err, fs.ErrNotExist) {
		return result, nil
	}

	cache, err := normcache.Open(normcache.Config{Path: result.Path, Logger: environment.Logger})
	if err != nil {
		return nil, err
	}
	defer cache.Close()
	if result.Removed, err = cache.Prune(ctx, cutoff); err != nil {
		return nil, err
	}
	if result.Entries, err = cache.Len(ctx); err != nil {
		return nil, err
	}
	return result, nil
}
