// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/serielens/internal/models"
)

// RatingsResponse lists ratings of one user or one item.
type RatingsResponse struct {
	UserID  string               `json:"user_id,omitempty"`
	ItemID  string               `json:"item_id,omitempty"`
	Count   int                  `json:"count"`
	Average float64              `json:"average"`
	Ratings []models.RatingEvent `json:"ratings"`
}

func newRatingsResponse(events []models.RatingEvent) RatingsResponse {
	resp := RatingsResponse{Count: len(events), Ratings: events}
	if len(events) > 0 {
		var sum int
		for _, ev := range events {
			sum += ev.Rating
		}
		resp.Average = float64(sum) / float64(len(events))
	}
	return resp
}

// CreateUser handles POST /api/v1/users. A new user answers 201; an
// existing one is renamed and answers 200.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	user, created, err := h.ratings.RegisterUser(r.Context(), req.ID, req.Name)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if created {
		NewResponseWriter(w, r).Created(user)
		return
	}
	WriteSuccess(w, r, user)
}

// GetUser handles GET /api/v1/users/{userID}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.ratings.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteSuccess(w, r, user)
}

// UserRatings handles GET /api/v1/users/{userID}/ratings.
func (h *Handler) UserRatings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	events, err := h.ratings.RatingsForUser(r.Context(), userID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	resp := newRatingsResponse(events)
	resp.UserID = userID
	WriteSuccess(w, r, resp)
}

// ItemRatings handles GET /api/v1/items/{itemID}/ratings.
func (h *Handler) ItemRatings(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	events, err := h.ratings.RatingsForItem(r.Context(), itemID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	resp := newRatingsResponse(events)
	resp.ItemID = itemID
	WriteSuccess(w, r, resp)
}

// PutRating handles PUT /api/v1/users/{userID}/ratings/{itemID}.
func (h *Handler) PutRating(w http.ResponseWriter, r *http.Request) {
	var req RateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	ev, err := h.ratings.Rate(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "itemID"), *req.Rating)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteSuccess(w, r, ev)
}

// GetRating handles GET /api/v1/users/{userID}/ratings/{itemID}.
func (h *Handler) GetRating(w http.ResponseWriter, r *http.Request) {
	ev, err := h.ratings.CurrentRating(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "itemID"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteSuccess(w, r, ev)
}

// DeleteRating handles DELETE /api/v1/users/{userID}/ratings/{itemID}.
func (h *Handler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	if err := h.ratings.DeleteRating(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "itemID")); err != nil {
		WriteError(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}
