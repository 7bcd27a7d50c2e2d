// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

/*
Package textproc cleans raw subtitle text into indexable token streams.

Cleaning runs in a fixed order: SRT timestamps, tags and SSA override
blocks are stripped; text is lowercased and accent-folded (NFD with
combining marks removed); hyphens, digits and punctuation become spaces;
whitespace is collapsed; tokens shorter than three runes and stopwords of
the block's language variant are dropped.

The Preprocessor groups RawBlocks per (series, variant), resolving the
variant from an explicit tag or from language detection over the first
words of each block. French maps to "vf", anything else to "vo".

The same Cleaner is used at query time so that queries and documents share
one token space.
*/
package textproc
