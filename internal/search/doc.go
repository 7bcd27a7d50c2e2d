// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

// Package search scores free-text queries against the active index.
//
// A query is cleaned like the corpus, projected onto the vocabulary and
// compared with every row by cosine similarity. Keyword boosts are then
// added: ExactBoost times the score of each keyword contained in the
// folded query, and PartialBoost times the score for each query token
// contained in a keyword. Items scoring zero or less are dropped.
package search
