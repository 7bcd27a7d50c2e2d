// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

// Package keywords ranks the most characteristic terms of each item.
//
// For every row of a fitted index, the heaviest nonzero terms are filtered
// (at least three runes, no digits, not a keyword stopword of the item's
// language) and kept when they occur at least twice as whole tokens in the
// item's cleaned text. Survivors are scored
//
//	idf^2.5 * occurrences^0.8 * tfidf
//
// and the top N are kept, ordered by score then term.
package keywords
