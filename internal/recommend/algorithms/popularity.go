// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package algorithms

import (
	"math"
	"sort"
)

// ItemStats aggregates the ratings of one item.
type ItemStats struct {
	ItemID     string
	AvgRating  float64
	NumRatings int
	Score      float64
}

// PopularityScore is avg x ln(1 + n). Zero ratings score zero.
func PopularityScore(avg float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return avg * math.Log1p(float64(n))
}

// Popularity computes ItemStats for every id in itemIDs, in input order.
// Items nobody rated get zero values.
func Popularity(m *RatingMatrix, itemIDs []string) []ItemStats {
	out := make([]ItemStats, len(itemIDs))
	for i, id := range itemIDs {
		st := ItemStats{ItemID: id}
		ratings := m.ItemRatings(id)
		if n := len(ratings); n > 0 {
			// Sum in user order so the result does not depend on map order.
			users := make([]string, 0, n)
			for u := range ratings {
				users = append(users, u)
			}
			sort.Strings(users)
			var sum float64
			for _, u := range users {
				sum += ratings[u]
			}
			st.NumRatings = n
			st.AvgRating = sum / float64(n)
			st.Score = PopularityScore(st.AvgRating, n)
		}
		out[i] = st
	}
	return out
}

// SortByScore orders stats by score descending, then item id ascending.
func SortByScore(stats []ItemStats) {
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Score != stats[j].Score {
			return stats[i].Score > stats[j].Score
		}
		return stats[i].ItemID < stats[j].ItemID
	})
}
