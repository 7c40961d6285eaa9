// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dataquest-foundation/dataquest/lib/vsm"
)

// EnvironmentVariable names the config file when no --config flag is
// given.
const EnvironmentVariable = "DATAQUEST_CONFIG"

// Config is the master configuration for dataquest.
type Config struct {
	// Paths configures directory locations.
	Paths PathsConfig `yaml:"paths"`

	// Model selects the language model.
	Model ModelConfig `yaml:"model"`

	// Pipeline tunes the relevance pipeline.
	Pipeline PipelineConfig `yaml:"pipeline"`

	// VectorSpace configures TF-IDF weighting.
	VectorSpace VectorSpaceConfig `yaml:"vector_space"`

	// Log configures command logging.
	Log LogConfig `yaml:"log"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// Root is the base directory for dataquest data.
	Root string `yaml:"root"`

	// Models is where compiled language models are installed.
	Models string `yaml:"models"`

	// Cache holds the normalization cache database.
	Cache string `yaml:"cache"`
}

// ModelConfig selects the language model.
type ModelConfig struct {
	// Name is the model name, e.g. en_core_web.
	Name string `yaml:"name"`

	// SourceURL, if set, is fetched to install the model instead of
	// using the embedded source. It must serve the model's YAML
	// source.
	SourceURL string `yaml:"source_url"`
}

// PipelineConfig tunes the relevance pipeline.
type PipelineConfig struct {
	// Workers bounds concurrent article reads. 0 means one per CPU.
	Workers int `yaml:"workers"`

	// ArchiveCache is the number of decoded archives kept in memory.
	// Negative disables the cache.
	ArchiveCache int `yaml:"archive_cache"`

	// UseCache enables the on-disk normalization cache.
	UseCache bool `yaml:"use_cache"`
}

// VectorSpaceConfig mirrors [vsm.Options].
type VectorSpaceConfig struct {
	NgramMax    int     `yaml:"ngram_max"`
	Norm        string  `yaml:"norm"`
	SublinearTF bool    `yaml:"sublinear_tf"`
	MinDF       int     `yaml:"min_df"`
	MaxDF       float64 `yaml:"max_df"`
	Stem        bool    `yaml:"stem"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`
}

// Default returns the default configuration. Loading a file merges
// into these values.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultRoot := filepath.Join(homeDir, ".cache", "dataquest")

	space := vsm.DefaultOptions()
	return &Config{
		Paths: PathsConfig{
			Root:   defaultRoot,
			Models: filepath.Join(defaultRoot, "models"),
			Cache:  filepath.Join(defaultRoot, "cache"),
		},
		Model: ModelConfig{
			Name: "en_core_web",
		},
		Pipeline: PipelineConfig{
			Workers:      0,
			ArchiveCache: 8,
			UseCache:     false,
		},
		VectorSpace: VectorSpaceConfig{
			NgramMax:    space.NgramMax,
			Norm:        string(space.Norm),
			SublinearTF: space.SublinearTF,
			MinDF:       space.MinDF,
			MaxDF:       space.MaxDF,
			Stem:        space.Stem,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the file named by DATAQUEST_CONFIG.
// It fails if the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your dataquest.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path on top of
// the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.expandVariables()
	return cfg, nil
}

// Resolve returns the configuration for a command: the file at path
// when path is non-empty, otherwise the file named by
// DATAQUEST_CONFIG, otherwise the defaults. The result is validated.
func Resolve(path string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	switch {
	case path != "":
		cfg, err = LoadFile(path)
	case os.Getenv(EnvironmentVariable) != "":
		cfg, err = Load()
	default:
		cfg = Default()
		cfg.expandVariables()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadFile merges a single configuration file into c.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"DATAQUEST_ROOT": c.Paths.Root,
		"HOME":           os.Getenv("HOME"),
	}

	c.Paths.Root = expandVars(c.Paths.Root, vars)
	vars["DATAQUEST_ROOT"] = c.Paths.Root // Dependent paths see the expanded root.

	c.Paths.Models = expandVars(c.Paths.Models, vars)
	c.Paths.Cache = expandVars(c.Paths.Cache, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns, looking in
// vars first and then the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors, reporting all of them.
func (c *Config) Validate() error {
	var errs []error

	if c.Paths.Root == "" {
		errs = append(errs, errors.New("paths.root is required"))
	}
	if c.Paths.Models == "" {
		errs = append(errs, errors.New("paths.models is required"))
	}
	if c.Model.Name == "" {
		errs = append(errs, errors.New("model.name is required"))
	}
	if c.Pipeline.UseCache && c.Paths.Cache == "" {
		errs = append(errs, errors.New("paths.cache is required when pipeline.use_cache is set"))
	}
	if c.Pipeline.Workers < 0 {
		errs = append(errs, fmt.Errorf("pipeline.workers must not be negative, got %d", c.Pipeline.Workers))
	}
	if _, err := c.VectorSpaceOptions(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// VectorSpaceOptions converts the vector_space section.
func (c *Config) VectorSpaceOptions() (vsm.Options, error) {
	norm, err := vsm.ParseNorm(c.VectorSpace.Norm)
	if err != nil {
		return vsm.Options{}, fmt.Errorf("vector_space.norm: %w", err)
	}
	options := vsm.Options{
		NgramMax:    c.VectorSpace.NgramMax,
		Norm:        norm,
		SublinearTF: c.VectorSpace.SublinearTF,
		MinDF:       c.VectorSpace.MinDF,
		MaxDF:       c.VectorSpace.MaxDF,
		Stem:        c.VectorSpace.Stem,
	}
	if err := options.Validate(); err != nil {
		return vsm.Options{}, err
	}
	return options, nil
}

// LogLevel parses log.level. An empty level means info.
func (c *Config) LogLevel() (slog.Level, error) {
	if strings.TrimSpace(c.Log.Level) == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// CachePath returns the normalization cache database path.
func (c *Config) CachePath() string {
	return filepath.Join(c.Paths.Cache, "normalized.db")
}

// EnsurePaths creates all configured directories if they don't exist.
func (c *Config) EnsurePaths() error {
	for _, path := range []string{c.Paths.Root, c.Paths.Models, c.Paths.Cache} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}
