// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete dataquest command tree.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/dataquest-foundation/dataquest/cmd/dataquest/cache"
	"github.com/dataquest-foundation/dataquest/cmd/dataquest/categorize"
	"github.com/dataquest-foundation/dataquest/cmd/dataquest/cli"
	"github.com/dataquest-foundation/dataquest/cmd/dataquest/export"
	"github.com/dataquest-foundation/dataquest/cmd/dataquest/model"
	"github.com/dataquest-foundation/dataquest/cmd/dataquest/selection"
	"github.com/dataquest-foundation/dataquest/cmd/dataquest/text"
	"github.com/dataquest-foundation/dataquest/lib/version"
)

// Root builds and returns the dataquest command tree.
func Root() *cli.Command {
	var versionParams struct {
		cli.JSONOutput
	}

	return &cli.Command{
		Name: "dataquest",
		Description: `dataquest: curate newspaper archives for a research interest.

The workflow runs in steps: categorize article documents into period
manifests, select the articles relevant to the research interest in
each manifest, and export the selection for manual labeling.`,
		Subcommands: []*cli.Command{
			categorize.Command(),
			selection.Command(),
			export.Command(),
			model.Command(),
			cache.Command(),
			text.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Params:  func() any { return &versionParams },
				Run: func(_ context.Context, args []string) error {
					info := map[string]string{
						"version": version.Short(),
						"commit":  version.Commit(),
						"built":   version.BuildTime,
					}
					if done, err := versionParams.EmitJSON(os.Stdout, info); done {
						return err
					}
					fmt.Printf("dataquest %s\n", version.Full())
					return nil
				},
			},
		},
	}
}
