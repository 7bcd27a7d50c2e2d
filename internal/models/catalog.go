// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package models

import (
	"strings"
	"time"
)

// Language variant tags. The same series dubbed in French and kept in its
// original language are two distinct items.
const (
	// LanguageVF tags French-language (version française) items.
	LanguageVF = "vf"

	// LanguageVO tags original-language (version originale) items.
	LanguageVO = "vo"
)

// Rating bounds. Ratings are integers in [MinRating, MaxRating].
const (
	MinRating = 1
	MaxRating = 5
)

// Item is a catalog entry: one series in one language variant.
type Item struct {
	// ID is the stable identifier, e.g. "lost_vf".
	ID string `json:"id"`

	// Title is the human-readable series title the item was built from.
	Title string `json:"title,omitempty"`

	// Language is the variant tag (LanguageVF or LanguageVO).
	Language string `json:"language"`
}

// User is a rater.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingEvent is the single current rating a user gave an item.
// There is at most one per (UserID, ItemID); later writes replace it.
type RatingEvent struct {
	UserID    string    `json:"user_id"`
	ItemID    string    `json:"item_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidateRating reports a *ValidationError when r is outside [MinRating, MaxRating].
func ValidateRating(r int) error {
	if r < MinRating || r > MaxRating {
		return NewValidationError("rating", "must be an integer between 1 and 5", r)
	}
	return nil
}

// NormalizeLanguage lowercases and trims a language tag.
// The empty string means "no language filter".
func NormalizeLanguage(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}

// ValidateLanguage accepts the empty filter and the two known variants.
func ValidateLanguage(lang string) error {
	switch lang {
	case "", LanguageVF, LanguageVO:
		return nil
	default:
		return NewValidationError("language", "must be one of: vf, vo", lang)
	}
}

// Document is the cleaned text of one item, ready for indexing.
type Document struct {
	ItemID   string `json:"item_id"`
	Title    string `json:"title,omitempty"`
	Language string `json:"language"`
	Text     string `json:"text"`
}

// Keyword is one ranked keyword of an item.
type Keyword struct {
	Term  string  `json:"keyword"`
	Score float64 `json:"score"`
}
