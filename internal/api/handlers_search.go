// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/serielens/internal/models"
	"github.com/tomtom215/serielens/internal/ratings"
	"github.com/tomtom215/serielens/internal/search"
)

// SearchResponse is the payload of GET /search.
type SearchResponse struct {
	Query    string          `json:"query"`
	Language string          `json:"language,omitempty"`
	Count    int             `json:"count"`
	Results  []search.Result `json:"results"`
}

// ItemsResponse is the payload of GET /items.
type ItemsResponse struct {
	Language string        `json:"language,omitempty"`
	Count    int           `json:"count"`
	Items    []models.Item `json:"items"`
}

// KeywordsResponse is the payload of GET /items/{itemID}/keywords.
type KeywordsResponse struct {
	ItemID   string           `json:"item_id"`
	Keywords []models.Keyword `json:"keywords"`
}

// Search handles GET /api/v1/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := newQueryParams(r)
	req := SearchRequest{
		Query:    q.String("q"),
		Limit:    q.Int("limit", h.config.SearchDefaultLimit),
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

	results, err := h.search.Search(ctx, req.Query, req.Limit, req.Language)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteSuccess(w, r, SearchResponse{
		Query:    req.Query,
		Language: req.Language,
		Count:    len(results),
		Results:  results,
	})
}

// Items handles GET /api/v1/items.
func (h *Handler) Items(w http.ResponseWriter, r *http.Request) {
	req := ItemsRequest{Language: newQueryParams(r).Language("language")}
	if err := validateRequest(&req); err != nil {
		WriteError(w, r, err)
		return
	}
	items, err := h.ratings.ListItems(r.Context(), req.Language)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteSuccess(w, r, ItemsResponse{Language: req.Language, Count: len(items), Items: items})
}

// ItemKeywords handles GET /api/v1/items/{itemID}/keywords.
func (h *Handler) ItemKeywords(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	q := newQueryParams(r)
	req := KeywordsRequest{Top: q.Int("top", h.config.KeywordsDefaultTop)}
	if err := q.Err(); err != nil {
		WriteError(w, r, err)
		return
	}
	if err := validateRequest(&req); err != nil {
		WriteError(w, r, err)
		return
	}
	if err := ratings.ValidateID("item_id", itemID); err != nil {
		WriteError(w, r, err)
		return
	}

	snap, err := h.holder.Require("keywords")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	kws, err := snap.KeywordsFor(itemID, req.Top)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteSuccess(w, r, KeywordsResponse{ItemID: itemID, Keywords: kws})
}
