// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package algorithms

import (
	"context"
	"math"
	"sort"
)

// KNNConfig contains configuration for user-based collaborative filtering.
type KNNConfig struct {
	// MinCommonRatings is the minimum number of co-rated items required
	// before two users count as neighbors.
	MinCommonRatings int
}

// DefaultKNNConfig returns default KNN configuration.
func DefaultKNNConfig() KNNConfig {
	return KNNConfig{MinCommonRatings: 2}
}

// Neighbor is a user similar to the target user.
type Neighbor struct {
	UserID     string
	Similarity float64
	Common     int
}

// Prediction is a predicted rating for an item the target has not rated.
type Prediction struct {
	ItemID       string
	Rating       float64
	Contributors int
}

// UserBasedCF implements user-based collaborative filtering.
//
// For a target user u and candidate item i:
//
//	score(u, i) = sum_{v in N(u, i)} sim(u, v) * r(v, i) / sum_{v in N(u, i)} sim(u, v)
//
// where N(u, i) are the neighbors of u with sim > 0 who rated i. Items with a
// zero denominator are not predicted.
type UserBasedCF struct {
	config KNNConfig
}

// NewUserBasedCF creates a new user-based CF algorithm.
func NewUserBasedCF(cfg KNNConfig) *UserBasedCF {
	if cfg.MinCommonRatings <= 0 {
		cfg.MinCommonRatings = DefaultKNNConfig().MinCommonRatings
	}
	return &UserBasedCF{config: cfg}
}

// Name returns the algorithm name.
func (u *UserBasedCF) Name() string { return "usercf" }

// Neighbors returns the users similar to userID, most similar first, ties
// broken by user id.
func (u *UserBasedCF) Neighbors(ctx context.Context, m *RatingMatrix, userID string) ([]Neighbor, error) {
	target := m.UserRatings(userID)
	if len(target) == 0 {
		return nil, nil
	}

	var neighbors []Neighbor
	for _, other := range m.Users() {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		if other == userID {
			continue
		}
		sim, common := CommonCosine(target, m.UserRatings(other))
		if common < u.config.MinCommonRatings || sim <= 0 {
			continue
		}
		neighbors = append(neighbors, Neighbor{UserID: other, Similarity: sim, Common: common})
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].UserID < neighbors[j].UserID
	})
	return neighbors, nil
}

// Predict scores the items rated by neighbors but not by userID. accept,
// when non-nil, restricts the candidate items.
func (u *UserBasedCF) Predict(m *RatingMatrix, userID string, neighbors []Neighbor, accept func(itemID string) bool) []Prediction {
	type acc struct {
		num, den float64
		n        int
	}
	sums := make(map[string]*acc)
	target := m.UserRatings(userID)

	for _, nb := range neighbors {
		if nb.Similarity <= 0 {
			continue
		}
		rated := m.UserRatings(nb.UserID)
		items := make([]string, 0, len(rated))
		for item := range rated {
			items = append(items, item)
		}
		sort.Strings(items)

		for _, item := range items {
			if _, seen := target[item]; seen {
				continue
			}
			if accept != nil && !accept(item) {
				continue
			}
			a := sums[item]
			if a == nil {
				a = &acc{}
				sums[item] = a
			}
			a.num += nb.Similarity * rated[item]
			a.den += nb.Similarity
			a.n++
		}
	}

	predictions := make([]Prediction, 0, len(sums))
	for item, a := range sums {
		if a.den <= 0 {
			continue
		}
		rating := a.num / a.den
		if math.IsNaN(rating) || math.IsInf(rating, 0) {
			continue
		}
		predictions = append(predictions, Prediction{ItemID: item, Rating: rating, Contributors: a.n})
	}

	sort.Slice(predictions, func(i, j int) bool {
		pi, pj := predictions[i], predictions[j]
		if pi.Rating != pj.Rating {
			return pi.Rating > pj.Rating
		}
		if pi.Contributors != pj.Contributors {
			return pi.Contributors > pj.Contributors
		}
		return pi.ItemID < pj.ItemID
	})
	return predictions
}

// CommonCosine is the cosine of two rating vectors restricted to the items
// both rated. It returns 0 when there is no overlap.
func CommonCosine(a, b map[string]float64) (sim float64, common int) {
	if len(b) < len(a) {
		a, b = b, a
	}
	items := make([]string, 0, len(a))
	for item := range a {
		if _, ok := b[item]; ok {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return 0, 0
	}
	sort.Strings(items)

	var dot, normA, normB float64
	for _, item := range items {
		x, y := a[item], b[item]
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, len(items)
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), len(items)
}
