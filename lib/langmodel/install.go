// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package langmodel

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"

	"gopkg.in/yaml.v3"
)

// DefaultName is the model used when configuration names none.
const DefaultName = "en_core_web"

//go:embed data/*.yaml
var embeddedSources embed.FS

// maxSourceBytes bounds a fetched model source.
const maxSourceBytes = 32 << 20

// ParseSource decodes a YAML model source.
func ParseSource(data []byte) (Source, error) {
	var source Source
	if err := yaml.Unmarshal(data, &source); err != nil {
		return Source{}, fmt.Errorf("langmodel: parsing source: %w", err)
	}
	return source, nil
}

// EmbeddedSource returns the YAML source compiled into the binary for
// the named model.
func EmbeddedSource(name string) (Source, error) {
	data, err := embeddedSources.ReadFile("data/" + name + ".yaml")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Source{}, fmt.Errorf("langmodel: no embedded model named %q", name)
		}
		return Source{}, fmt.Errorf("reading embedded model %s: %w", name, err)
	}
	return ParseSource(data)
}

// Embedded compiles the named embedded model without touching disk.
func Embedded(name string) (*Model, error) {
	source, err := EmbeddedSource(name)
	if err != nil {
		return nil, err
	}
	return Compile(source)
}

// Installer makes a named model available in a models directory.
type Installer interface {
	Install(ctx context.Context, name, dir string) error
}

// EmbeddedInstaller installs models from the sources compiled into the
// binary.
type EmbeddedInstaller struct{}

// Install writes the embedded source for name into dir.
func (EmbeddedInstaller) Install(_ context.Context, name, dir string) error {
	source, err := EmbeddedSource(name)
	if err != nil {
		return err
	}
	return Write(dir, source)
}

// HTTPInstaller fetches a YAML model source from URL.
type HTTPInstaller struct {
	URL string

	// Client defaults to http.DefaultClient.
	Client *http.Client
}

// Install fetches the source, checks that it describes the requested
// model, and writes it into dir.
func (h HTTPInstaller) Install(ctx context.Context, name, dir string) error {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return fmt.Errorf("langmodel: building request for %s: %w", h.URL, err)
	}
	response, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("langmodel: fetching %s: %w", h.URL, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("langmodel: fetching %s: unexpected status %s", h.URL, response.Status)
	}

	data, err := io.ReadAll(io.LimitReader(response.Body, maxSourceBytes))
	if err != nil {
		return fmt.Errorf("langmodel: reading %s: %w", h.URL, err)
	}
	source, err := ParseSource(data)
	if err != nil {
		return err
	}
	if source.Name != name {
		return fmt.Errorf("langmodel: %s serves model %q, want %q", h.URL, source.Name, name)
	}
	return Write(dir, source)
}

// LoadOptions configures [Load].
type LoadOptions struct {
	// Dir is the models directory.
	Dir string

	// Name is the model to load. Defaults to [DefaultName].
	Name string

	// Installer is invoked once when the model cannot be opened. If
	// nil, an open failure is returned immediately.
	Installer Installer

	// Logger receives install notices. If nil, a no-op logger is used.
	Logger *slog.Logger
}

// Load opens the named model from the models directory. If that fails
// for any reason, Load runs the installer once and opens the model
// again. A failure after installation is fatal and wraps both the
// original and the final error.
func Load(ctx context.Context, options LoadOptions) (*Model, error) {
	name := options.Name
	if name == "" {
		name = DefaultName
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	model, openErr := Open(options.Dir, name)
	if openErr == nil {
		return model, nil
	}
	if options.Installer == nil {
		return nil, openErr
	}

	logger.Info("language model unavailable, installing",
		"model", name,
		"dir", options.Dir,
		"reason", openErr,
	)
	if err := options.Installer.Install(ctx, name, options.Dir); err != nil {
		return nil, fmt.Errorf("installing language model %s: %w", name, errors.Join(openErr, err))
	}

	model, err := Open(options.Dir, name)
	if err != nil {
		return nil, fmt.Errorf("loading language model %s after install: %w", name, errors.Join(openErr, err))
	}
	logger.Info("language model installed",
		"model", name,
		"version", model.Version(),
		"fingerprint", model.Fingerprint(),
	)
	return model, nil
}
