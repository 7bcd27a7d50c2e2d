// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package algorithms

import (
	"context"
	"sort"

	"github.com/tomtom215/serielens/internal/models"
)

// RatingMatrix is a sparse user x item view of a rating set. It is built
// per request and never mutated afterwards.
type RatingMatrix struct {
	byUser map[string]map[string]float64
	byItem map[string]map[string]float64
	users  []string
}

// NewRatingMatrix indexes events. A repeated (user, item) pair keeps the
// last value, matching upsert semantics.
func NewRatingMatrix(events []models.RatingEvent) *RatingMatrix {
	m := &RatingMatrix{
		byUser: make(map[string]map[string]float64),
		byItem: make(map[string]map[string]float64),
	}
	for _, ev := range events {
		row := m.byUser[ev.UserID]
		if row == nil {
			row = make(map[string]float64)
			m.byUser[ev.UserID] = row
			m.users = append(m.users, ev.UserID)
		}
		row[ev.ItemID] = float64(ev.Rating)

		col := m.byItem[ev.ItemID]
		if col == nil {
			col = make(map[string]float64)
			m.byItem[ev.ItemID] = col
		}
		col[ev.UserID] = float64(ev.Rating)
	}
	sort.Strings(m.users)
	return m
}

// Users returns the ids of users with at least one rating, sorted.
func (m *RatingMatrix) Users() []string { return m.users }

// UserRatings returns the user's ratings keyed by item id. The map must
// not be modified.
func (m *RatingMatrix) UserRatings(userID string) map[string]float64 {
	return m.byUser[userID]
}

// ItemRatings returns the item's ratings keyed by user id.
func (m *RatingMatrix) ItemRatings(itemID string) map[string]float64 {
	return m.byItem[itemID]
}

// HasRated reports whether userID rated itemID.
func (m *RatingMatrix) HasRated(userID, itemID string) bool {
	_, ok := m.byUser[userID][itemID]
	return ok
}

// ContextCancelled checks if the context has been canceled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
