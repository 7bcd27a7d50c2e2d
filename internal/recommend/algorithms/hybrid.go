// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package algorithms

import "sort"

// RatingScale is the top of the rating scale popularity is normalized onto.
const RatingScale = 5.0

// Blended is one hybrid candidate.
type Blended struct {
	ItemID        string
	Score         float64
	Collaborative float64
	Popularity    float64 // normalized onto [0, RatingScale]
}

// Blend combines collaborative predictions with popularity stats:
//
//	hybrid(i) = wUser * collab(i) + wPop * pop(i) / max(pop) * RatingScale
//
// An item missing from one signal gets 0 for it. Items for which exclude
// returns true are dropped. The result is ordered by score descending, then
// item id.
func Blend(predictions []Prediction, popular []ItemStats, wUser, wPop float64, exclude func(itemID string) bool) []Blended {
	var maxPop float64
	for _, st := range popular {
		if st.Score > maxPop {
			maxPop = st.Score
		}
	}

	merged := make(map[string]*Blended, len(predictions)+len(popular))
	get := func(id string) *Blended {
		b := merged[id]
		if b == nil {
			b = &Blended{ItemID: id}
			merged[id] = b
		}
		return b
	}
	for _, p := range predictions {
		get(p.ItemID).Collaborative = p.Rating
	}
	for _, st := range popular {
		b := get(st.ItemID)
		if maxPop > 0 {
			b.Popularity = st.Score / maxPop * RatingScale
		}
	}

	out := make([]Blended, 0, len(merged))
	for id, b := range merged {
		if exclude != nil && exclude(id) {
			continue
		}
		b.Score = wUser*b.Collaborative + wPop*b.Popularity
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out
}
