// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

// Package recommend serves the three recommendation strategies.
//
//   - Popular ranks catalog items by avg_rating x ln(1 + num_ratings).
//   - Collaborative predicts ratings from users who share at least
//     MinCommonRatings rated items with the target.
//   - Hybrid blends both: w_user x predicted + w_pop x popularity / max x 5.
//
// # Fallback chain
//
// Missing rating data never fails a request. When the target user has no
// ratings, no similar users, or no predictable items, Collaborative and
// Hybrid answer with the popularity ranking minus the items the user
// already rated. The result reports the strategy that actually served it
// and the reason (no_ratings, no_similar_users, no_candidates). An
// unknown user id is the only condition surfaced as an error.
//
// # Unrated items
//
// Items nobody rated score 0 under the default "zero" policy. The
// "keyword_proxy" policy scores them KeywordProxyFactor x keyword count
// so they are ordered among themselves instead of by id.
//
// # Determinism
//
// Every call recomputes from the current rating set. Rankings use total
// orders (score, then contributors where relevant, then item id), so
// identical inputs always yield identical outputs.
package recommend
