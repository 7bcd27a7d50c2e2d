// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

// Package ratings owns rating ingestion on top of a store.Store.
//
// The Service validates ids and rating values, checks that the user and the
// item exist, and serializes writers per (user, item) pair with a
// reference-counted keyed mutex. Writes to distinct pairs never contend.
//
// Import reads the legacy flat-file format
//
//	{"alice": {"lost_vf": 5, "friends_vo": 3}, ...}
//
// and replays every entry through Rate, registering unknown users on the
// way. Entries for items missing from the catalog are skipped and counted.
package ratings
