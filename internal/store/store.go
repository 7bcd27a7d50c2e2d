// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tomtom215/serielens/internal/config"
	"github.com/tomtom215/serielens/internal/models"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Store persists the catalog, users and rating events. Every backend
// behaves identically; lists are returned sorted and never nil.
type Store interface {
	// SyncItems replaces the catalog with items. Ratings are untouched.
	SyncItems(ctx context.Context, items []models.Item) error

	// GetItem returns a *models.NotFoundError for unknown ids.
	GetItem(ctx context.Context, id string) (models.Item, error)

	// ListItems returns items sorted by id. language "" means all.
	ListItems(ctx context.Context, language string) ([]models.Item, error)

	// PutUser creates u or updates its name. CreatedAt of an existing user
	// is kept. created reports whether the user is new.
	PutUser(ctx context.Context, u models.User) (stored models.User, created bool, err error)

	// GetUser returns a *models.NotFoundError for unknown ids.
	GetUser(ctx context.Context, id string) (models.User, error)

	// UpsertRating stores the rating of (UserID, ItemID), replacing any
	// previous value. CreatedAt of an existing rating is kept.
	UpsertRating(ctx context.Context, ev models.RatingEvent) (models.RatingEvent, error)

	// GetRating returns a *models.NotFoundError when the pair has no rating.
	GetRating(ctx context.Context, userID, itemID string) (models.RatingEvent, error)

	// DeleteRating returns a *models.NotFoundError when the pair has no rating.
	DeleteRating(ctx context.Context, userID, itemID string) error

	// RatingsForUser returns the user's ratings sorted by item id.
	RatingsForUser(ctx context.Context, userID string) ([]models.RatingEvent, error)

	// RatingsForItem returns the item's ratings sorted by user id.
	RatingsForItem(ctx context.Context, itemID string) ([]models.RatingEvent, error)

	// AllRatings returns every rating sorted by user id then item id.
	AllRatings(ctx context.Context) ([]models.RatingEvent, error)

	Close() error
}

// Config selects and locates a backend.
type Config struct {
	Backend string
	Path    string
}

// ConfigFrom maps the application storage settings.
func ConfigFrom(cfg config.StorageConfig) Config {
	return Config{Backend: cfg.Backend, Path: cfg.Path}
}

// Open creates the configured backend.
func Open(cfg Config, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("component", "store").Str("backend", cfg.Backend).Logger()
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendBadger:
		return OpenBadgerStore(cfg.Path, logger)
	case BackendSQLite:
		return OpenSQLiteStore(cfg.Path, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func sortItems(items []models.Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
}

func sortRatings(ratings []models.RatingEvent) {
	sort.Slice(ratings, func(i, j int) bool {
		if ratings[i].UserID != ratings[j].UserID {
			return ratings[i].UserID < ratings[j].UserID
		}
		return ratings[i].ItemID < ratings[j].ItemID
	})
}
