// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package ratings

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/serielens/internal/models"
)

// ImportStats holds statistics about a legacy import.
type ImportStats struct {
	// Users is the number of distinct users in the source document.
	Users int `json:"users"`

	// UsersCreated counts users registered by the import.
	UsersCreated int `json:"users_created"`

	// Processed is the number of (user, item) entries read.
	Processed int `json:"processed"`

	// Imported is the number of ratings written.
	Imported int `json:"imported"`

	// SkippedUnknownItem counts entries whose item is not in the catalog.
	SkippedUnknownItem int `json:"skipped_unknown_item"`

	// Invalid counts entries rejected by validation (bad id or rating).
	Invalid int `json:"invalid"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Duration returns the duration of the import.
func (s *ImportStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Import replays a legacy {user: {item: rating}} document through Rate.
// Users and items are visited in sorted order so repeated imports write
// the same sequence. Store failures abort the import.
func (s *Service) Import(ctx context.Context, r io.Reader) (*ImportStats, error) {
	var doc map[string]map[string]float64
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode legacy ratings: %w", err)
	}

	stats := &ImportStats{StartTime: time.Now(), Users: len(doc)}
	defer func() { stats.EndTime = time.Now() }()

	users := make([]string, 0, len(doc))
	for u := range doc {
		users = append(users, u)
	}
	sort.Strings(users)

	for _, userID := range users {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		entries := doc[userID]
		items := make([]string, 0, len(entries))
		for it := range entries {
			items = append(items, it)
		}
		sort.Strings(items)
		stats.Processed += len(items)

		_, created, err := s.RegisterUser(ctx, userID, "")
		if err != nil {
			if models.IsValidation(err) {
				s.logger.Warn().Err(err).Str("user_id", userID).Msg("Skipping legacy user")
				stats.Invalid += len(items)
				continue
			}
			return stats, fmt.Errorf("register user %s: %w", userID, err)
		}
		if created {
			stats.UsersCreated++
		}

		for _, itemID := range items {
			value := entries[itemID]
			if value != math.Trunc(value) || value < models.MinRating || value > models.MaxRating {
				stats.Invalid++
				continue
			}
			_, err := s.Rate(ctx, userID, itemID, int(value))
			switch {
			case err == nil:
				stats.Imported++
			case models.IsNotFound(err):
				stats.SkippedUnknownItem++
			case models.IsValidation(err):
				stats.Invalid++
			default:
				return stats, fmt.Errorf("import rating %s/%s: %w", userID, itemID, err)
			}
		}
	}

	s.logger.Info().
		Int("users", stats.Users).
		Int("imported", stats.Imported).
		Int("skipped_unknown_item", stats.SkippedUnknownItem).
		Int("invalid", stats.Invalid).
		Dur("duration", stats.Duration()).
		Msg("Legacy ratings import completed")
	return stats, nil
}
