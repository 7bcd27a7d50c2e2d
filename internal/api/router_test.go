// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/serielens/internal/middleware"
	"github.com/tomtom215/serielens/internal/models"
	"github.com/tomtom215/serielens/internal/recommend"
)

func TestHealth(t *testing.T) {
	t.Parallel()

	t.Run("loaded", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, envOptions{})

		rec, resp := env.do(t, http.MethodGet, "/api/v1/health", "")
		if rec.Code != http.StatusOK || !resp.Success {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		var status HealthStatus
		decodeData(t, resp, &status)
		if status.Status != "healthy" || !status.IndexLoaded || status.Items != 3 || status.VocabularySize == 0 || status.BuildID == "" {
			t.Errorf("health = %+v", status)
		}

		rec, _ = env.do(t, http.MethodGet, "/api/v1/health/ready", "")
		if rec.Code != http.StatusOK {
			t.Errorf("ready status = %d, want 200", rec.Code)
		}
	})

	t.Run("unloaded", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, envOptions{unloaded: true})

		_, resp := env.do(t, http.MethodGet, "/api/v1/health", "")
		var status HealthStatus
		decodeData(t, resp, &status)
		if status.Status != "degraded" || status.IndexLoaded {
			t.Errorf("health = %+v, want degraded", status)
		}

		rec, resp := env.do(t, http.MethodGet, "/api/v1/health/ready", "")
		expectError(t, rec, resp, http.StatusServiceUnavailable, ErrCodeServiceUnavailable)

		rec, _ = env.do(t, http.MethodGet, "/api/v1/health/live", "")
		if rec.Code != http.StatusOK {
			t.Errorf("live status = %d, want 200", rec.Code)
		}
	})
}

func TestSearch(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	rec, resp := env.do(t, http.MethodGet, "/api/v1/search?q=plane&limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var sr SearchResponse
	decodeData(t, resp, &sr)
	if sr.Count == 0 || sr.Results[0].ItemID != "lost_vo" {
		t.Errorf("search = %+v, want lost_vo first", sr)
	}

	_, resp = env.do(t, http.MethodGet, "/api/v1/search?q=plane&language=VF", "")
	decodeData(t, resp, &sr)
	for _, r := range sr.Results {
		if r.Language != models.LanguageVF {
			t.Errorf("language filter leaked %+v", r)
		}
	}

	errorCases := []struct {
		name string
		path string
	}{
		{"missing query", "/api/v1/search"},
		{"blank query", "/api/v1/search?q=%20%20"},
		{"non-numeric limit", "/api/v1/search?q=plane&limit=ten"},
		{"zero limit", "/api/v1/search?q=plane&limit=0"},
		{"unknown language", "/api/v1/search?q=plane&language=de"},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, resp := env.do(t, http.MethodGet, tt.path, "")
			expectError(t, rec, resp, http.StatusBadRequest, ErrCodeValidationFailed)
		})
	}
}

func TestSearchWithoutIndex(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{unloaded: true})

	rec, resp := env.do(t, http.MethodGet, "/api/v1/search?q=plane", "")
	expectError(t, rec, resp, http.StatusServiceUnavailable, ErrCodeServiceUnavailable)

	rec, resp = env.do(t, http.MethodGet, "/api/v1/items/lost_vo/keywords", "")
	expectError(t, rec, resp, http.StatusServiceUnavailable, ErrCodeServiceUnavailable)
}

func TestItemsAndKeywords(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	_, resp := env.do(t, http.MethodGet, "/api/v1/items", "")
	var items ItemsResponse
	decodeData(t, resp, &items)
	if items.Count != 3 || items.Items[0].ID != "friends_vo" {
		t.Errorf("items = %+v", items)
	}

	_, resp = env.do(t, http.MethodGet, "/api/v1/items?language=vo", "")
	decodeData(t, resp, &items)
	if items.Count != 2 {
		t.Errorf("vo items = %+v, want 2", items)
	}

	rec, resp := env.do(t, http.MethodGet, "/api/v1/items?language=es", "")
	expectError(t, rec, resp, http.StatusBadRequest, ErrCodeValidationFailed)

	rec, resp = env.do(t, http.MethodGet, "/api/v1/items/lost_vf/keywords?top=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("keywords status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var kw KeywordsResponse
	decodeData(t, resp, &kw)
	if kw.ItemID != "lost_vf" || len(kw.Keywords) > 1 {
		t.Errorf("keywords = %+v, want at most one", kw)
	}

	rec, resp = env.do(t, http.MethodGet, "/api/v1/items/dexter_vo/keywords", "")
	expectError(t, rec, resp, http.StatusNotFound, ErrCodeNotFound)

	rec, resp = env.do(t, http.MethodGet, "/api/v1/items/lost_vf/keywords?top=-1", "")
	expectError(t, rec, resp, http.StatusBadRequest, ErrCodeValidationFailed)
}

func TestUsersAndRatings(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	rec, resp := env.do(t, http.MethodPost, "/api/v1/users", `{"id":"alice","name":"Alice"}`)
	if rec.Code != http.StatusCreated || !resp.Success {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	rec, resp = env.do(t, http.MethodPost, "/api/v1/users", `{"id":"alice","name":"Alice L."}`)
	var user models.User
	decodeData(t, resp, &user)
	if rec.Code != http.StatusOK || user.Name != "Alice L." {
		t.Errorf("re-register = %d %+v, want 200 with new name", rec.Code, user)
	}

	badBodies := []struct {
		name string
		body string
	}{
		{"malformed", `{"id":`},
		{"unknown field", `{"id":"bob","role":"admin"}`},
		{"missing id", `{"name":"Bob"}`},
		{"two objects", `{"id":"bob"}{"id":"carol"}`},
		{"control character id", `{"id":"bo\u0000b"}`},
	}
	for _, tt := range badBodies {
		t.Run("create "+tt.name, func(t *testing.T) {
			t.Parallel()
			rec, resp := env.do(t, http.MethodPost, "/api/v1/users", tt.body)
			expectError(t, rec, resp, http.StatusBadRequest, ErrCodeValidationFailed)
		})
	}

	rec, resp = env.do(t, http.MethodPut, "/api/v1/users/alice/ratings/lost_vf", `{"rating":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var ev models.RatingEvent
	decodeData(t, resp, &ev)
	if ev.UserID != "alice" || ev.ItemID != "lost_vf" || ev.Rating != 5 {
		t.Errorf("put = %+v", ev)
	}

	rateErrors := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"out of range", "/api/v1/users/alice/ratings/lost_vf", `{"rating":9}`, http.StatusBadRequest, ErrCodeValidationFailed},
		{"missing rating", "/api/v1/users/alice/ratings/lost_vf", `{}`, http.StatusBadRequest, ErrCodeValidationFailed},
		{"fractional rating", "/api/v1/users/alice/ratings/lost_vf", `{"rating":4.5}`, http.StatusBadRequest, ErrCodeValidationFailed},
		{"unknown item", "/api/v1/users/alice/ratings/dexter_vo", `{"rating":3}`, http.StatusNotFound, ErrCodeNotFound},
		{"unknown user", "/api/v1/users/bob/ratings/lost_vf", `{"rating":3}`, http.StatusNotFound, ErrCodeNotFound},
	}
	for _, tt := range rateErrors {
		t.Run("rate "+tt.name, func(t *testing.T) {
			rec, resp := env.do(t, http.MethodPut, tt.path, tt.body)
			expectError(t, rec, resp, tt.status, tt.code)
		})
	}

	_, resp = env.do(t, http.MethodGet, "/api/v1/users/alice/ratings/lost_vf", "")
	decodeData(t, resp, &ev)
	if ev.Rating != 5 {
		t.Errorf("current rating = %+v, want 5 (rejected writes must not change it)", ev)
	}

	var list RatingsResponse
	_, resp = env.do(t, http.MethodGet, "/api/v1/users/alice/ratings", "")
	decodeData(t, resp, &list)
	if list.UserID != "alice" || list.Count != 1 {
		t.Errorf("user ratings = %+v", list)
	}
	_, resp = env.do(t, http.MethodGet, "/api/v1/items/lost_vf/ratings", "")
	decodeData(t, resp, &list)
	if list.ItemID != "lost_vf" || list.Count != 1 || list.Average != 5 {
		t.Errorf("item ratings = %+v", list)
	}

	rec, _ = env.do(t, http.MethodDelete, "/api/v1/users/alice/ratings/lost_vf", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}
	rec, resp = env.do(t, http.MethodDelete, "/api/v1/users/alice/ratings/lost_vf", "")
	expectError(t, rec, resp, http.StatusNotFound, ErrCodeNotFound)
	rec, resp = env.do(t, http.MethodGet, "/api/v1/users/nobody", "")
	expectError(t, rec, resp, http.StatusNotFound, ErrCodeNotFound)
}

func TestRecommendations(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	for _, body := range []string{`{"id":"alice"}`, `{"id":"bob"}`, `{"id":"newbie"}`} {
		if rec, _ := env.do(t, http.MethodPost, "/api/v1/users", body); rec.Code != http.StatusCreated {
			t.Fatalf("create %s: status %d", body, rec.Code)
		}
	}
	for _, r := range []struct{ path, body string }{
		{"/api/v1/users/alice/ratings/lost_vf", `{"rating":5}`},
		{"/api/v1/users/alice/ratings/lost_vo", `{"rating":4}`},
		{"/api/v1/users/bob/ratings/lost_vf", `{"rating":5}`},
		{"/api/v1/users/bob/ratings/lost_vo", `{"rating":4}`},
		{"/api/v1/users/bob/ratings/friends_vo", `{"rating":5}`},
	} {
		if rec, _ := env.do(t, http.MethodPut, r.path, r.body); rec.Code != http.StatusOK {
			t.Fatalf("PUT %s: status %d", r.path, rec.Code)
		}
	}

	t.Run("popular", func(t *testing.T) {
		_, resp := env.do(t, http.MethodGet, "/api/v1/recommendations/popular?limit=2", "")
		var pop PopularResponse
		decodeData(t, resp, &pop)
		if pop.Count != 2 || pop.Items[0].ItemID != "lost_vf" || pop.Items[0].NumRatings != 2 {
			t.Errorf("popular = %+v, want lost_vf first", pop)
		}

		_, resp = env.do(t, http.MethodGet, "/api/v1/recommendations/popular?min_ratings=2&language=vo", "")
		decodeData(t, resp, &pop)
		if pop.Count != 1 || pop.Items[0].ItemID != "lost_vo" {
			t.Errorf("filtered popular = %+v, want only lost_vo", pop)
		}

		for _, q := range []string{"min_average=6", "min_ratings=-1", "limit=-3", "min_average=high"} {
			rec, resp := env.do(t, http.MethodGet, "/api/v1/recommendations/popular?"+q, "")
			expectError(t, rec, resp, http.StatusBadRequest, ErrCodeValidationFailed)
		}
	})

	t.Run("collaborative", func(t *testing.T) {
		_, resp := env.do(t, http.MethodGet, "/api/v1/recommendations/users/alice/collaborative", "")
		var res recommend.CollaborativeResult
		decodeData(t, resp, &res)
		if res.Strategy != recommend.StrategyCollaborative || len(res.Predictions) != 1 || res.Predictions[0].ItemID != "friends_vo" {
			t.Fatalf("collaborative = %+v", res)
		}
		if got := res.Predictions[0].PredictedRating; got < 4.999 || got > 5.001 {
			t.Errorf("predicted rating = %v, want 5", got)
		}

		_, resp = env.do(t, http.MethodGet, "/api/v1/recommendations/users/newbie/collaborative", "")
		res = recommend.CollaborativeResult{}
		decodeData(t, resp, &res)
		if res.Strategy != recommend.StrategyPopularity || res.FallbackReason != recommend.ReasonNoRatings || len(res.Popular) != 3 {
			t.Errorf("fallback = %+v", res)
		}

		rec, resp := env.do(t, http.MethodGet, "/api/v1/recommendations/users/ghost/collaborative", "")
		expectError(t, rec, resp, http.StatusNotFound, ErrCodeNotFound)
	})

	t.Run("hybrid", func(t *testing.T) {
		_, resp := env.do(t, http.MethodGet, "/api/v1/recommendations/users/alice/hybrid?w_user=1&w_pop=0", "")
		var res recommend.HybridResult
		decodeData(t, resp, &res)
		if res.Strategy != recommend.StrategyHybrid || len(res.Items) != 1 || res.Items[0].ItemID != "friends_vo" {
			t.Fatalf("hybrid = %+v", res)
		}
		if res.Weights != (recommend.Weights{User: 1, Popularity: 0}) {
			t.Errorf("weights = %+v, want the override", res.Weights)
		}

		_, resp = env.do(t, http.MethodGet, "/api/v1/recommendations/users/alice/hybrid?w_user=0.5", "")
		res = recommend.HybridResult{}
		decodeData(t, resp, &res)
		if res.Weights != (recommend.Weights{User: 0.5, Popularity: 0.3}) {
			t.Errorf("weights = %+v, want w_user overridden and default popularity", res.Weights)
		}

		for _, q := range []string{"w_user=0&w_pop=0", "w_user=-1", "w_pop=abc"} {
			rec, resp := env.do(t, http.MethodGet, "/api/v1/recommendations/users/alice/hybrid?"+q, "")
			expectError(t, rec, resp, http.StatusBadRequest, ErrCodeValidationFailed)
		}
	})
}

func TestRouting(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	rec, resp := env.do(t, http.MethodGet, "/api/v1/nothing-here", "")
	expectError(t, rec, resp, http.StatusNotFound, ErrCodeNotFound)

	rec, resp = env.do(t, http.MethodPatch, "/api/v1/search", "")
	expectError(t, rec, resp, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	req.Header.Set(middleware.RequestIDHeader, "trace-42")
	out := httptest.NewRecorder()
	env.handler.ServeHTTP(out, req)
	if got := out.Header().Get(middleware.RequestIDHeader); got != "trace-42" {
		t.Errorf("X-Request-ID = %q, want trace-42", got)
	}
	if !strings.Contains(out.Body.String(), `"request_id":"trace-42"`) {
		t.Errorf("meta does not carry the request id: %s", out.Body.String())
	}
	if out.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing on API responses")
	}

	rec, _ = env.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Errorf("/metrics status = %d", rec.Code)
	}
}

type stubRebuilder struct {
	err   error
	calls int
}

func (s *stubRebuilder) StartRebuild() error {
	s.calls++
	return s.err
}

func TestRebuildIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		rebuilder *stubRebuilder
		status    int
		code      string
	}{
		{"started", &stubRebuilder{}, http.StatusAccepted, ""},
		{"already running", &stubRebuilder{err: models.ErrBuildInProgress}, http.StatusConflict, ErrCodeConflict},
		{"disabled", nil, http.StatusNotFound, ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opts := envOptions{}
			if tt.rebuilder != nil {
				opts.rebuilder = tt.rebuilder
			}
			env := newTestEnv(t, opts)

			rec, resp := env.do(t, http.MethodPost, "/api/v1/index/rebuild", "")
			if tt.code != "" {
				expectError(t, rec, resp, tt.status, tt.code)
			} else if rec.Code != tt.status || !resp.Success {
				t.Errorf("status = %d, want %d\n%s", rec.Code, tt.status, rec.Body.String())
			}
			if tt.rebuilder != nil && tt.rebuilder.calls != 1 {
				t.Errorf("StartRebuild calls = %d, want 1", tt.rebuilder.calls)
			}
		})
	}
}

func TestCollaborativeEmptyFallbackList(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, envOptions{})

	if rec, _ := env.do(t, http.MethodPost, "/api/v1/users", `{"id":"completist"}`); rec.Code != http.StatusCreated {
		t.Fatalf("create user = %d", rec.Code)
	}
	for _, item := range []string{"friends_vo", "lost_vf", "lost_vo"} {
		if rec, _ := env.do(t, http.MethodPut, "/api/v1/users/completist/ratings/"+item, `{"rating":4}`); rec.Code != http.StatusOK {
			t.Fatalf("rate %s = %d", item, rec.Code)
		}
	}

	rec, resp := env.do(t, http.MethodGet, "/api/v1/recommendations/users/completist/collaborative", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\n%s", rec.Code, rec.Body.String())
	}
	if got := string(resp.Data); !strings.Contains(got, `"popular":[]`) || strings.Contains(got, "null") {
		t.Errorf("data = %s, want an empty popular list", got)
	}
}
