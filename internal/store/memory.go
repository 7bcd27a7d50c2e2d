// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package store

import (
	"context"
	"sync"

	"github.com/tomtom215/serielens/internal/models"
)

type ratingKey struct {
	user string
	item string
}

// MemoryStore keeps everything in maps. Data is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	items   map[string]models.Item
	users   map[string]models.User
	ratings map[ratingKey]models.RatingEvent
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:   make(map[string]models.Item),
		users:   make(map[string]models.User),
		ratings: make(map[ratingKey]models.RatingEvent),
	}
}

func (m *MemoryStore) SyncItems(_ context.Context, items []models.Item) error {
	next := make(map[string]models.Item, len(items))
	for _, it := range items {
		next[it.ID] = it
	}
	m.mu.Lock()
	m.items = next
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetItem(_ context.Context, id string) (models.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[id]
	if !ok {
		return models.Item{}, models.NewNotFoundError("item", id)
	}
	return it, nil
}

func (m *MemoryStore) ListItems(_ context.Context, language string) ([]models.Item, error) {
	m.mu.RLock()
	out := make([]models.Item, 0, len(m.items))
	for _, it := range m.items {
		if language == "" || it.Language == language {
			out = append(out, it)
		}
	}
	m.mu.RUnlock()
	sortItems(out)
	return out, nil
}

func (m *MemoryStore) PutUser(_ context.Context, u models.User) (models.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[u.ID]
	if ok {
		u.CreatedAt = existing.CreatedAt
	}
	m.users[u.ID] = u
	return u, !ok, nil
}

func (m *MemoryStore) GetUser(_ context.Context, id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, models.NewNotFoundError("user", id)
	}
	return u, nil
}

func (m *MemoryStore) UpsertRating(_ context.Context, ev models.RatingEvent) (models.RatingEvent, error) {
	key := ratingKey{ev.UserID, ev.ItemID}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.ratings[key]; ok {
		ev.CreatedAt = existing.CreatedAt
	}
	m.ratings[key] = ev
	return ev, nil
}

func (m *MemoryStore) GetRating(_ context.Context, userID, itemID string) (models.RatingEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ev, ok := m.ratings[ratingKey{userID, itemID}]
	if !ok {
		return models.RatingEvent{}, models.NewNotFoundError("rating", userID+"/"+itemID)
	}
	return ev, nil
}

func (m *MemoryStore) DeleteRating(_ context.Context, userID, itemID string) error {
	key := ratingKey{userID, itemID}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ratings[key]; !ok {
		return models.NewNotFoundError("rating", userID+"/"+itemID)
	}
	delete(m.ratings, key)
	return nil
}

func (m *MemoryStore) RatingsForUser(_ context.Context, userID string) ([]models.RatingEvent, error) {
	return m.filterRatings(func(k ratingKey) bool { return k.user == userID }), nil
}

func (m *MemoryStore) RatingsForItem(_ context.Context, itemID string) ([]models.RatingEvent, error) {
	return m.filterRatings(func(k ratingKey) bool { return k.item == itemID }), nil
}

func (m *MemoryStore) AllRatings(_ context.Context) ([]models.RatingEvent, error) {
	return m.filterRatings(func(ratingKey) bool { return true }), nil
}

func (m *MemoryStore) filterRatings(keep func(ratingKey) bool) []models.RatingEvent {
	m.mu.RLock()
	out := make([]models.RatingEvent, 0)
	for k, ev := range m.ratings {
		if keep(k) {
			out = append(out, ev)
		}
	}
	m.mu.RUnlock()
	sortRatings(out)
	return out
}

func (m *MemoryStore) Close() error { return nil }
