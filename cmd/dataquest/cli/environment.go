// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dataquest-foundation/dataquest/lib/config"
	"github.com/dataquest-foundation/dataquest/lib/langmodel"
)

// ConfigParams is an embeddable struct adding the --config and
// --log-level flags shared by commands that need the tool
// configuration.
type ConfigParams struct {
	ConfigPath string `json:"-" flag:"config" desc:"path to dataquest.yaml (default: $DATAQUEST_CONFIG, then built-in defaults)"`
	LogLevel   string `json:"-" flag:"log-level" desc:"override log.level (debug, info, warn, error)"`
}

// Environment is what a command needs to run: the resolved
// configuration and a logger scoped to the command.
type Environment struct {
	Config *config.Config
	Logger *slog.Logger
}

// Environment resolves the configuration and builds a command logger
// tagged with command.
func (p *ConfigParams) Environment(command string) (*Environment, error) {
	cfg, err := config.Resolve(p.ConfigPath)
	if err != nil {
		return nil, err
	}
	if p.LogLevel != "" {
		cfg.Log.Level = p.LogLevel
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	return &Environment{
		Config: cfg,
		Logger: NewCommandLogger(level).With("command", command),
	}, nil
}

// Installer returns the model installer the configuration asks for:
// an HTTP fetch when model.source_url is set, the embedded sources
// otherwise.
func (e *Environment) Installer() langmodel.Installer {
	if e.Config.Model.SourceURL != "" {
		return langmodel.HTTPInstaller{URL: e.Config.Model.SourceURL}
	}
	return langmodel.EmbeddedInstaller{}
}

// LoadModel opens the configured language model, installing it once
// if it is missing.
func (e *Environment) LoadModel(ctx context.Context) (*langmodel.Model, error) {
	model, err := langmodel.Load(ctx, langmodel.LoadOptions{
		Dir:       e.Config.Paths.Models,
		Name:      e.Config.Model.Name,
		Installer: e.Installer(),
		Logger:    e.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("language model: %w", err)
	}
	e.Logger.Debug("language model loaded",
		"model", model.Name(),
		"version", model.Version(),
		"fingerprint", model.Fingerprint(),
	)
	return model, nil
}
