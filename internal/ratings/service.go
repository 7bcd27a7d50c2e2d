// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package ratings

import (
	"context"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/tomtom215/serielens/internal/logging"
	"github.com/tomtom215/serielens/internal/metrics"
	"github.com/tomtom215/serielens/internal/models"
	"github.com/tomtom215/serielens/internal/store"
)

// MaxIDLength bounds user and item ids in bytes.
const MaxIDLength = 256

// Service is the rating ingestion boundary.
type Service struct {
	store  store.Store
	locks  *keyedMutex
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a Service over s.
func NewService(s store.Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  s,
		locks:  newKeyedMutex(),
		logger: logger.With().Str("component", "ratings").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ValidateID rejects empty, oversized and control-character ids.
func ValidateID(field, id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return models.NewValidationError(field, "must not be empty", nil)
	case len(id) > MaxIDLength:
		return models.NewValidationError(field, "must be at most 256 bytes", len(id))
	case !utf8.ValidString(id):
		return models.NewValidationError(field, "must be valid UTF-8", nil)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return models.NewValidationError(field, "must not contain control characters", id)
		}
	}
	return nil
}

// RegisterUser creates the user or renames an existing one.
func (s *Service) RegisterUser(ctx context.Context, id, name string) (models.User, bool, error) {
	if err := ValidateID("user_id", id); err != nil {
		return models.User{}, false, err
	}
	u, created, err := s.store.PutUser(ctx, models.User{ID: id, Name: strings.TrimSpace(name), CreatedAt: s.now()})
	if err != nil {
		return models.User{}, false, err
	}
	if created {
		logging.Ctx(ctx).Info().Str("user_id", id).Msg("User registered")
	}
	return u, created, nil
}

// GetUser returns a *models.NotFoundError for unknown users.
func (s *Service) GetUser(ctx context.Context, id string) (models.User, error) {
	if err := ValidateID("user_id", id); err != nil {
		return models.User{}, err
	}
	return s.store.GetUser(ctx, id)
}

// GetItem returns a *models.NotFoundError for items outside the catalog.
func (s *Service) GetItem(ctx context.Context, id string) (models.Item, error) {
	if err := ValidateID("item_id", id); err != nil {
		return models.Item{}, err
	}
	return s.store.GetItem(ctx, id)
}

// ListItems returns the catalog, optionally restricted to one language.
func (s *Service) ListItems(ctx context.Context, language string) ([]models.Item, error) {
	language = models.NormalizeLanguage(language)
	if err := models.ValidateLanguage(language); err != nil {
		return nil, err
	}
	return s.store.ListItems(ctx, language)
}

// SyncCatalog replaces the catalog. Existing ratings are kept even for
// items that disappear, so a later rebuild can bring them back.
func (s *Service) SyncCatalog(ctx context.Context, items []models.Item) error {
	if err := s.store.SyncItems(ctx, items); err != nil {
		return err
	}
	s.logger.Info().Int("items", len(items)).Msg("Catalog synced")
	return nil
}

// Rate upserts the rating of (userID, itemID). The previous value, if
// any, is replaced; CreatedAt survives and UpdatedAt is refreshed.
func (s *Service) Rate(ctx context.Context, userID, itemID string, rating int) (ev models.RatingEvent, err error) {
	defer func() { metrics.RecordRatingWrite("upsert", err) }()

	if err := s.checkPair(ctx, userID, itemID); err != nil {
		return models.RatingEvent{}, err
	}
	if err := models.ValidateRating(rating); err != nil {
		return models.RatingEvent{}, err
	}

	unlock := s.locks.Lock(pairKey(userID, itemID))
	defer unlock()

	now := s.now()
	ev, err = s.store.UpsertRating(ctx, models.RatingEvent{
		UserID:    userID,
		ItemID:    itemID,
		Rating:    rating,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return models.RatingEvent{}, err
	}
	logging.Ctx(ctx).Debug().
		Str("user_id", userID).
		Str("item_id", itemID).
		Int("rating", rating).
		Msg("Rating stored")
	return ev, nil
}

// CurrentRating returns the stored rating of the pair.
func (s *Service) CurrentRating(ctx context.Context, userID, itemID string) (models.RatingEvent, error) {
	if err := ValidateID("user_id", userID); err != nil {
		return models.RatingEvent{}, err
	}
	if err := ValidateID("item_id", itemID); err != nil {
		return models.RatingEvent{}, err
	}
	return s.store.GetRating(ctx, userID, itemID)
}

// DeleteRating removes the pair's rating.
func (s *Service) DeleteRating(ctx context.Context, userID, itemID string) (err error) {
	defer func() { metrics.RecordRatingWrite("delete", err) }()

	if err := ValidateID("user_id", userID); err != nil {
		return err
	}
	if err := ValidateID("item_id", itemID); err != nil {
		return err
	}

	unlock := s.locks.Lock(pairKey(userID, itemID))
	defer unlock()
	return s.store.DeleteRating(ctx, userID, itemID)
}

// RatingsForUser lists the user's ratings by item id.
func (s *Service) RatingsForUser(ctx context.Context, userID string) ([]models.RatingEvent, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.RatingsForUser(ctx, userID)
}

// RatingsForItem lists the item's ratings by user id.
func (s *Service) RatingsForItem(ctx context.Context, itemID string) ([]models.RatingEvent, error) {
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.store.RatingsForItem(ctx, itemID)
}

// AllRatings returns the full rating set ordered by user then item.
func (s *Service) AllRatings(ctx context.Context) ([]models.RatingEvent, error) {
	return s.store.AllRatings(ctx)
}

func (s *Service) checkPair(ctx context.Context, userID, itemID string) error {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return err
	}
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return err
	}
	return nil
}

func pairKey(userID, itemID string) string {
	return userID + "\x00" + itemID
}
