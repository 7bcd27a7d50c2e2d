// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/serielens/internal/recommend"
)

// PopularResponse is the payload of GET /recommendations/popular.
type PopularResponse struct {
	Strategy recommend.Strategy      `json:"strategy"`
	Language string                  `json:"language,omitempty"`
	Count    int                     `json:"count"`
	Items    []recommend.PopularItem `json:"items"`
}

// Popular handles GET /api/v1/recommendations/popular.
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	req := PopularRequest{
		Limit:      q.Int("limit", 0),
		Language:   q.Language("language"),
		MinRatings: q.Int("min_ratings", 0),
		MinAverage: q.Float("min_average", 0),
	}
	if err := q.Err(); err != nil {
		WriteError(w, r, err)
		return
	}
	if err := validateRequest(&req); err != nil {
		WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	items, err := h.recommend.Popular(ctx, recommend.PopularQuery{
		Limit:      req.Limit,
		Language:   req.Language,
		MinRatings: req.MinRatings,
		MinAverage: req.MinAverage,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteSuccess(w, r, PopularResponse{
		Strategy: recommend.StrategyPopularity,
		Language: req.Language,
		Count:    len(items),
		Items:    items,
	})
}

// Collaborative handles GET /api/v1/recommendations/users/{userID}/collaborative.
// Users without usable neighbors get the popularity ranking; the response
// names the strategy that served it and why.
func (h *Handler) Collaborative(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	req := CollaborativeRequest{
		Limit:    q.Int("limit", 0),
		Language: q.Language("language"),
	}
	if err := q.Err(); err != nil {
		WriteError(w, r, err)
		return
	}
	if err := validateRequest(&req); err != nil {
		WriteError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	res, err := h.recommend.Collaborative(ctx, chi.URLParam(r, "userID"), recommend.CollaborativeQuery{
		Limit:    req.Limit,
		Language: req.Language,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteSuccess(w, r, res)
}

// Hybrid handles GET /api/v1/recommendations/users/{userID}/hybrid.
// w_user and w_pop override the configured weights; a missing one keeps
// its configured value.
func (h *Handler) Hybrid(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	req := HybridRequest{
		Limit:      q.Int("limit", 0),
		UserWeight: q.FloatPtr("w_user"),
		PopWeight:  q.FloatPtr("w_pop"),
	}
	if err := q.Err(); err != nil {
		WriteError(w, r, err)
		return
	}
	if err := validateRequest(&req); err != nil {
		WriteError(w, r, err)
		return
	}

	query := recommend.HybridQuery{Limit: req.Limit}
	if req.UserWeight != nil || req.PopWeight != nil {
		weights := h.recommend.Config().Weights
		if req.UserWeight != nil {
			weights.User = *req.UserWeight
		}
		if req.PopWeight != nil {
			weights.Popularity = *req.PopWeight
		}
		query.Weights = &weights
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	res, err := h.recommend.Hybrid(ctx, chi.URLParam(r, "userID"), query)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteSuccess(w, r, res)
}
