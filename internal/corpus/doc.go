// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

// Package corpus reads raw subtitle files from disk.
//
// The expected layout is one directory per series under the corpus root:
//
//	subtitles/
//	  Lost/
//	    s01e01.fr.srt
//	    s01e01.en.srt
//	  Breaking Bad/
//	    season1/e01.srt
//
// Every matching file becomes one textproc.RawBlock titled after its
// top-level directory. Files that are not valid UTF-8 are decoded as
// Windows-1252.
package corpus
