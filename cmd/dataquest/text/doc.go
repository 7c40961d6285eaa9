// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package text implements "dataquest text", line filters that apply
// the normalizer to arbitrary input. They show what the pipeline sees
// for a given title, body or keyword list.
package text
