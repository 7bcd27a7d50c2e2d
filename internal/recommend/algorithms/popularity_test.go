// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package algorithms

import (
	"math"
	"testing"
)

func TestPopularity(t *testing.T) {
	t.Parallel()

	m := NewRatingMatrix(events(map[string]map[string]int{
		"u1": {"lost_vo": 5, "friends_vo": 2},
		"u2": {"lost_vo": 5},
		"u3": {"lost_vo": 4},
	}))
	stats := Popularity(m, []string{"friends_vo", "lost_vo", "dexter_vo"})

	lost := stats[1]
	if lost.NumRatings != 3 || math.Abs(lost.AvgRating-4.667) > 0.001 {
		t.Errorf("lost stats = %+v, want 3 ratings averaging 4.667", lost)
	}
	if math.Abs(lost.Score-6.47) > 0.01 {
		t.Errorf("lost score = %v, want about 6.47", lost.Score)
	}

	dexter := stats[2]
	if dexter.NumRatings != 0 || dexter.Score != 0 || math.IsNaN(dexter.AvgRating) {
		t.Errorf("unrated stats = %+v, want zeros", dexter)
	}

	SortByScore(stats)
	if stats[0].ItemID != "lost_vo" || stats[1].ItemID != "friends_vo" || stats[2].ItemID != "dexter_vo" {
		t.Errorf("SortByScore() = %+v", stats)
	}
}

func TestSortByScoreTieBreak(t *testing.T) {
	t.Parallel()

	stats := []ItemStats{{ItemID: "c"}, {ItemID: "a", Score: 1}, {ItemID: "b", Score: 1}}
	SortByScore(stats)
	if stats[0].ItemID != "a" || stats[1].ItemID != "b" || stats[2].ItemID != "c" {
		t.Errorf("SortByScore() = %+v, want a, b, c", stats)
	}
}

func TestPopularityScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		avg  float64
		n    int
		want float64
	}{
		{0, 0, 0},
		{5, 1, 5 * math.Ln2},
		{14.0 / 3, 3, 14.0 / 3 * math.Log(4)},
	}
	for _, tt := range tests {
		if got := PopularityScore(tt.avg, tt.n); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("PopularityScore(%v, %d) = %v, want %v", tt.avg, tt.n, got, tt.want)
		}
	}
}
