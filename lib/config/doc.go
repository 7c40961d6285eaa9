// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for dataquest.
//
// Configuration comes from a single file named by the --config flag or
// the DATAQUEST_CONFIG environment variable (see [Resolve]). Without
// either, the built-in [Default] values apply. There is no file
// search and no per-field environment override: the file, when given,
// is the whole story.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${DATAQUEST_ROOT}, and ${VAR:-default} patterns are
// expanded.
//
// Key exports:
//
//   - [Config] -- master struct with Paths, Model, Pipeline,
//     VectorSpace and Log sections
//   - [Default] -- returns a Config with defaults under
//     ~/.cache/dataquest
//   - [Load], [LoadFile] and [Resolve] -- the entry points for loading
//
// This package depends only on lib/vsm, for converting the
// vector_space section into [vsm.Options].
package config
