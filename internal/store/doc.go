// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

// Package store persists the item catalog, users and rating events behind
// one Store interface with three interchangeable backends:
//
//   - memory: maps guarded by a sync.RWMutex (default, lost on restart)
//   - badger: embedded BadgerDB with prefix keys and a per-item index
//   - sqlite: a single SQLite file using ON CONFLICT upserts
//
// All backends share one behavioral contract, exercised by the same test
// suite: lists are sorted and never nil, a missing entity is reported as a
// *models.NotFoundError, and an upsert keeps the original CreatedAt.
//
// Ids must not contain NUL bytes; the Badger key layout uses NUL as the
// separator of composite keys. The ratings service rejects such ids before
// they reach a store.
package store
