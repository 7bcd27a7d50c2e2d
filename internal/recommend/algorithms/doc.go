// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

// Package algorithms implements the scoring functions behind the
// recommendation engine.
//
// Everything here is a pure function of a RatingMatrix built for the
// current request; nothing is trained ahead of time or cached, so results
// always reflect the latest rating set.
//
//   - Popularity: avg_rating x ln(1 + num_ratings) per item
//   - UserBasedCF: user-user cosine over co-rated items, similarity
//     weighted mean of neighbor ratings
//   - Blend: linear mix of collaborative and normalized popularity scores
//
// Ordering is deterministic. Every sort has a total tie-break and sums are
// accumulated in sorted key order.
package algorithms
