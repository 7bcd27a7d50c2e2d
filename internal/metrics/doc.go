// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

// Package metrics holds the Prometheus collectors for index builds, search,
// recommendations, rating writes and the HTTP API. Collectors are registered
// on the default registry at init through promauto and exposed on /metrics.
package metrics
