// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package api

// Request structs carry go-playground/validator tags. Query structs are
// filled by the handlers from URL parameters; body structs are decoded
// from JSON. Range checks that belong to the domain (rating 1-5, known
// language) stay in the services so every entry point shares them.

// SearchRequest holds the /search query parameters.
type SearchRequest struct {
	Query    string `query:"q" validate:"required,max=1000"`
	Limit    int    `query:"limit" validate:"min=1"`
	Language string `query:"language" validate:"omitempty,langtag"`
}

// ItemsRequest holds the /items query parameters.
type ItemsRequest struct {
	Language string `query:"language" validate:"omitempty,langtag"`
}

// KeywordsRequest holds the /items/{itemID}/keywords query parameters.
// Top 0 returns every stored keyword.
type KeywordsRequest struct {
	Top int `query:"top" validate:"min=0,max=1000"`
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	ID   string `json:"id" validate:"required,max=256"`
	Name string `json:"name" validate:"max=256"`
}

// RateRequest is the body of PUT /users/{userID}/ratings/{itemID}.
type RateRequest struct {
	Rating *int `json:"rating" validate:"required"`
}

// PopularRequest holds the /recommendations/popular query parameters.
type PopularRequest struct {
	Limit      int     `query:"limit" validate:"min=0"`
	Language   string  `query:"language" validate:"omitempty,langtag"`
	MinRatings int     `query:"min_ratings" validate:"min=0"`
	MinAverage float64 `query:"min_average" validate:"gte=0,lte=5"`
}

// CollaborativeRequest holds the collaborative recommendation parameters.
type CollaborativeRequest struct {
	Limit    int    `query:"limit" validate:"min=0"`
	Language string `query:"language" validate:"omitempty,langtag"`
}

// HybridRequest holds the hybrid recommendation parameters. Nil weights
// fall back to the configured defaults.
type HybridRequest struct {
	Limit      int      `query:"limit" validate:"min=0"`
	UserWeight *float64 `query:"w_user" validate:"omitempty,gte=0"`
	PopWeight  *float64 `query:"w_pop" validate:"omitempty,gte=0"`
}
