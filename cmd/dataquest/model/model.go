// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dataquest-foundation/dataquest/cmd/dataquest/cli"
	"github.com/dataquest-foundation/dataquest/lib/langmodel"
)

// Command returns the "model" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "model",
		Summary: "Install and inspect the language model",
		Description: `Manage the language model that drives tokenization, stopword removal
and lemmatization. The model is named by model.name in dataquest.yaml
and installed into paths.models.`,
		Subcommands: []*cli.Command{
			installCommand(),
			showCommand(),
		},
	}
}

// Info describes an installed model.
type Info struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Language    string    `json:"language"`
	Fingerprint string    `json:"fingerprint"`
	Stopwords   int       `json:"stopwords"`
	Lemmas      int       `json:"lemmas"`
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	Modified    time.Time `json:"modified"`

	// Installed is set by install when it wrote the file, as opposed
	// to finding it already present.
	Installed bool `json:"installed"`
}

type installParams struct {
	cli.JSONOutput
	cli.ConfigParams
	Force bool `json:"force" flag:"force,f" desc:"reinstall even if the model is already present"`
}

func installCommand() *cli.Command {
	var params installParams

	return &cli.Command{
		Name:    "install",
		Summary: "Install the configured language model",
		Description: `Compile the configured model and write it to paths.models. The source
is fetched from model.source_url when set, otherwise the copy embedded
in the binary is used. An installed model is left alone unless --force
is given.`,
		Usage: "dataquest model install [--force] [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			environment, err := params.Environment("model install")
			if err != nil {
				return err
			}
			info, err := Install(ctx, environment, params.Force)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(os.Stdout, info); done {
				return err
			}
			heading := "Already installed"
			if info.Installed {
				heading = "Installed"
			}
			return writeInfo(os.Stdout, heading, info)
		},
	}
}

type showParams struct {
	cli.JSONOutput
	cli.ConfigParams
}

func showCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Describe the installed language model",
		Usage:   "dataquest model show [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			environment, err := params.Environment("model show")
			if err != nil {
				return err
			}
			info, err := Show(environment)
			if err != nil {
				return err
			}
			if done, err := params.EmitJSON(os.Stdout, info); done {
				return err
			}
			return writeInfo(os.Stdout, info.Name, info)
		},
	}
}

// Install makes the configured model available. Without force an
// already installed, loadable model is kept.
func Install(ctx context.Context, environment *cli.Environment, force bool) (*Info, error) {
	cfg := environment.Config
	name := modelName(environment)
	if !force {
		if info, err := describe(cfg.Paths.Models, name); err == nil {
			return info, nil
		}
	}

	if err := environment.Installer().Install(ctx, name, cfg.Paths.Models); err != nil {
		return nil, fmt.Errorf("installing %s: %w", name, err)
	}
	info, err := describe(cfg.Paths.Models, name)
	if err != nil {
		return nil, err
	}
	info.Installed = true
	environment.Logger.Info("language model installed",
		"model", info.Name,
		"version", info.Version,
		"path", info.Path,
	)
	return info, nil
}

// Show describes the installed model without installing it.
func Show(environment *cli.Environment) (*Info, error) {
	info, err := describe(environment.Config.Paths.Models, modelName(environment))
	if errors.Is(err, langmodel.ErrNotInstalled) {
		return nil, fmt.Errorf("%w (run 'dataquest model install')", err)
	}
	return info, err
}

func modelName(environment *cli.Environment) string {
	if name := environment.Config.Model.Name; name != "" {
		return name
	}
	return langmodel.DefaultName
}

func describe(dir, name string) (*Info, error) {
	loaded, err := langmodel.Open(dir, name)
	if err != nil {
		return nil, err
	}
	path := langmodel.Path(dir, name)
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &Info{
		Name:        loaded.Name(),
		Version:     loaded.Version(),
		Language:    loaded.Language(),
		Fingerprint: loaded.Fingerprint(),
		Stopwords:   loaded.StopwordCount(),
		Lemmas:      loaded.LemmaCount(),
		Path:        path,
		Size:        stat.Size(),
		Modified:    stat.ModTime(),
	}, nil
}

func writeInfo(w io.Writer, heading string, info *Info) error {
	return cli.WriteFields(w, heading, []cli.Field{
		{Label: "name", Value: info.Name},
		{Label: "version", Value: info.Version},
		{Label: "language", Value: info.Language},
		{Label: "fingerprint", Value: info.Fingerprint},
		{Label: "stopwords", Value: humanize.Comma(int64(info.Stopwords))},
		{Label: "lemmas", Value: humanize.Comma(int64(info.Lemmas))},
		{Label: "path", Value: info.Path},
		{Label: "size", Value: humanize.Bytes(uint64(info.Size))},
		{Label: "modified", Value: humanize.Time(info.Modified)},
	})
}
