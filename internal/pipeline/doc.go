// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

// Package pipeline runs the batch index build:
//
//	corpus.Loader -> textproc.Preprocessor -> index.Builder
//	    -> keywords.Extractor -> index.ArtifactStore -> index.Holder
//
// A build is fully sequential and refuses to overlap with another build,
// in-process through the Holder and across processes through the artifact
// directory's lock file. Artifacts are written to temp files and renamed,
// so readers see either the previous build or the new one.
package pipeline
