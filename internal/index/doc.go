// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

/*
Package index builds, persists and serves the TF-IDF vector space.

A Builder fits a SearchIndex over cleaned documents:

  - terms are unigrams and space-joined bigrams of the cleaned tokens
  - terms outside [min_df, max_df*N] documents are pruned, then the
    max_features most frequent terms (ties lexical) are kept
  - the vocabulary is sorted lexically and a term's position is its column
  - idf(t) = ln((1+N)/(1+df(t))) + 1
  - each row holds tf*idf, L2-normalized, sparse and sorted by column

A SearchIndex never changes after construction. The ArtifactStore writes
index.json, keywords.json and manifest.json through temp files and renames,
guarded by an O_EXCL build.lock. The Holder publishes the active Snapshot
through an atomic pointer so a rebuild replaces the model in one step.
*/
package index
