// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

// Package interest reads a research-interest configuration: the
// keywords that define the interest, the rule that selects articles by
// similarity, and the unit (whole article or paragraph) of exported
// output.
//
// The file is authored as JSONC (JSON with comments and trailing
// commas), conventionally named config.json:
//
//	{
//	  // Earlier filtering stages also read this list.
//	  "filters": [
//	    {"type": "KeywordsFilter", "keywords": ["climate", "glacier"]},
//	    {"type": "YearFilter", "year": 1990},
//	  ],
//	  "article_selector": {"type": "num_articles", "value": "3"},
//	  "output_unit": "paragraph",
//	}
//
// Only the KeywordsFilter entry matters here; other filter types
// belong to the earlier filtering stage and are ignored.
package interest
