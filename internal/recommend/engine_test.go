// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package recommend

import (
	"context"
	"errors"
	"io"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/serielens/internal/logging"
	"github.com/tomtom215/serielens/internal/models"
)

// fakeSource is an in-memory DataSource.
type fakeSource struct {
	users   map[string]bool
	items   []models.Item
	ratings []models.RatingEvent
	err     error
}

func (f *fakeSource) GetUser(_ context.Context, id string) (models.User, error) {
	if !f.users[id] {
		return models.User{}, models.NewNotFoundError("user", id)
	}
	return models.User{ID: id}, nil
}

func (f *fakeSource) ListItems(_ context.Context, language string) ([]models.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Item, 0, len(f.items))
	for _, it := range f.items {
		if language == "" || it.Language == language {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSource) AllRatings(_ context.Context) ([]models.RatingEvent, error) {
	return f.ratings, nil
}

func (f *fakeSource) rate(user, item string, r int) {
	f.users[user] = true
	f.ratings = append(f.ratings, models.RatingEvent{UserID: user, ItemID: item, Rating: r})
}

type keywordCounts map[string]int

func (k keywordCounts) KeywordCount(itemID string) int { return k[itemID] }

func newSource(items ...string) *fakeSource {
	f := &fakeSource{users: map[string]bool{}}
	for _, id := range items {
		lang := models.LanguageVO
		if len(id) > 3 && id[len(id)-3:] == "_vf" {
			lang = models.LanguageVF
		}
		f.items = append(f.items, models.Item{ID: id, Title: id, Language: lang})
	}
	return f
}

func newTestEngine(t *testing.T, cfg *Config, src DataSource, kw KeywordCounter) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, src, kw, logging.NewTestLogger(io.Discard))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestPopularScenario(t *testing.T) {
	t.Parallel()

	src := newSource("lost_vo", "friends_vo", "dexter_vo")
	src.rate("u1", "lost_vo", 5)
	src.rate("u2", "lost_vo", 5)
	src.rate("u3", "lost_vo", 4)
	src.rate("u1", "friends_vo", 3)
	e := newTestEngine(t, nil, src, nil)

	got, err := e.Popular(context.Background(), PopularQuery{Limit: 10})
	if err != nil {
		t.Fatalf("Popular() error = %v", err)
	}
	if len(got) != 3 || got[0].ItemID != "lost_vo" || got[1].ItemID != "friends_vo" || got[2].ItemID != "dexter_vo" {
		t.Fatalf("Popular() = %+v", got)
	}
	if math.Abs(got[0].AvgRating-4.667) > 0.001 || math.Abs(got[0].PopularityScore-6.47) > 0.01 || got[0].NumRatings != 3 {
		t.Errorf("lost_vo = %+v, want avg 4.667, score 6.47", got[0])
	}
	if got[2].PopularityScore != 0 || got[2].NumRatings != 0 {
		t.Errorf("unrated item = %+v, want zero score", got[2])
	}
}

func TestPopularFilters(t *testing.T) {
	t.Parallel()

	src := newSource("lost_vo", "lost_vf", "friends_vo")
	src.rate("u1", "lost_vo", 5)
	src.rate("u2", "lost_vo", 5)
	src.rate("u1", "lost_vf", 2)
	src.rate("u1", "friends_vo", 4)
	e := newTestEngine(t, nil, src, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		query PopularQuery
		want  []string
	}{
		{"limit", PopularQuery{Limit: 1}, []string{"lost_vo"}},
		{"language", PopularQuery{Language: "VF"}, []string{"lost_vf"}},
		{"min ratings", PopularQuery{MinRatings: 2}, []string{"lost_vo"}},
		{"min average", PopularQuery{MinAverage: 3}, []string{"lost_vo", "friends_vo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := e.Popular(ctx, tt.query)
			if err != nil {
				t.Fatalf("Popular() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Popular() = %+v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i].ItemID != tt.want[i] {
					t.Errorf("Popular()[%d] = %s, want %s", i, got[i].ItemID, tt.want[i])
				}
			}
		})
	}
}

func TestPopularValidation(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil, newSource("a_vo"), nil)
	for _, q := range []PopularQuery{
		{Limit: -1},
		{Language: "de"},
		{MinRatings: -1},
		{MinAverage: 6},
	} {
		if _, err := e.Popular(context.Background(), q); !models.IsValidation(err) {
			t.Errorf("Popular(%+v) error = %v, want ValidationError", q, err)
		}
	}
}

func TestPopularKeywordProxy(t *testing.T) {
	t.Parallel()

	src := newSource("a_vo", "b_vo", "c_vo")
	src.rate("u1", "c_vo", 1)
	cfg := DefaultConfig()
	cfg.UnratedPolicy = UnratedKeywordProxy
	e := newTestEngine(t, cfg, src, keywordCounts{"a_vo": 3, "b_vo": 50, "c_vo": 500})

	got, err := e.Popular(context.Background(), PopularQuery{})
	if err != nil {
		t.Fatalf("Popular() error = %v", err)
	}
	// c_vo: 1 x ln 2 = 0.69 (rated, proxy ignored); b_vo: 0.5; a_vo: 0.03.
	want := []string{"c_vo", "b_vo", "a_vo"}
	for i := range want {
		if got[i].ItemID != want[i] {
			t.Fatalf("Popular() = %+v, want order %v", got, want)
		}
	}
	if math.Abs(got[1].PopularityScore-0.5) > 1e-12 {
		t.Errorf("b_vo proxy score = %v, want 0.5", got[1].PopularityScore)
	}

	if _, err := NewEngine(cfg, src, nil, logging.NewTestLogger(io.Discard)); err == nil {
		t.Error("NewEngine() with keyword_proxy and no keyword source should fail")
	}
}

func TestCollaborativeScenario(t *testing.T) {
	t.Parallel()

	src := newSource("x_vo", "y_vo", "z_vo")
	src.rate("a", "x_vo", 5)
	src.rate("a", "y_vo", 5)
	src.rate("b", "x_vo", 5)
	src.rate("b", "y_vo", 4)
	src.rate("b", "z_vo", 5)
	e := newTestEngine(t, nil, src, nil)

	res, err := e.Collaborative(context.Background(), "a", CollaborativeQuery{Limit: 5})
	if err != nil {
		t.Fatalf("Collaborative() error = %v", err)
	}
	if res.Strategy != StrategyCollaborative || res.FallbackReason != ReasonNone {
		t.Fatalf("Collaborative() strategy = %s (%s), want collaborative", res.Strategy, res.FallbackReason)
	}
	if len(res.Predictions) != 1 || res.Predictions[0].ItemID != "z_vo" {
		t.Fatalf("Collaborative() = %+v, want z_vo", res.Predictions)
	}
	if math.Abs(res.Predictions[0].PredictedRating-5) > 0.01 {
		t.Errorf("predicted rating = %v, want near 5", res.Predictions[0].PredictedRating)
	}
	if res.Popular != nil {
		t.Errorf("Popular = %+v, want nil when collaborative served", res.Popular)
	}
}

func TestCollaborativeFallbacks(t *testing.T) {
	t.Parallel()

	src := newSource("x_vo", "y_vo", "z_vo", "w_vf")
	src.users["newbie"] = true
	src.rate("loner", "w_vf", 5)
	src.rate("a", "x_vo", 5)
	src.rate("a", "y_vo", 5)
	src.rate("b", "x_vo", 5)
	src.rate("b", "y_vo", 4)
	src.rate("c", "x_vo", 2)
	src.rate("c", "y_vo", 3)
	src.rate("c", "z_vo", 4)
	e := newTestEngine(t, nil, src, nil)

	tests := []struct {
		name       string
		user       string
		wantReason FallbackReason
		notIn      string
	}{
		{"no ratings", "newbie", ReasonNoRatings, ""},
		{"no similar users", "loner", ReasonNoSimilarUsers, "w_vf"},
		{"no candidates", "c", ReasonNoCandidates, "z_vo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := e.Collaborative(context.Background(), tt.user, CollaborativeQuery{Limit: 10, Language: ""})
			if err != nil {
				t.Fatalf("Collaborative() error = %v", err)
			}
			if res.Strategy != StrategyPopularity || res.FallbackReason != tt.wantReason {
				t.Fatalf("Collaborative() = %s (%s), want popularity (%s)", res.Strategy, res.FallbackReason, tt.wantReason)
			}
			if res.Popular == nil || res.Predictions != nil {
				t.Errorf("fallback result = %+v, want popular list only", res)
			}
			for _, p := range res.Popular {
				if p.ItemID == tt.notIn {
					t.Errorf("fallback list contains already rated item %s", p.ItemID)
				}
			}
		})
	}
}

func TestCollaborativeResultJSON(t *testing.T) {
	t.Parallel()

	// Having rated the whole catalog leaves an empty fallback ranking.
	src := newSource("x_vo", "y_vo")
	src.rate("completist", "x_vo", 4)
	src.rate("completist", "y_vo", 2)
	fallback, err := newTestEngine(t, nil, src, nil).Collaborative(context.Background(), "completist", CollaborativeQuery{Limit: 10})
	if err != nil {
		t.Fatalf("Collaborative() error = %v", err)
	}

	tests := []struct {
		name    string
		result  CollaborativeResult
		want    string
		notWant string
	}{
		{"empty fallback", *fallback, `"popular":[]`, `"predictions"`},
		{"empty predictions", CollaborativeResult{UserID: "u", Strategy: StrategyCollaborative}, `"predictions":[]`, `"popular"`},
		{
			"predictions",
			CollaborativeResult{UserID: "u", Strategy: StrategyCollaborative, Predictions: []PredictedItem{{ItemID: "x_vo"}}},
			`"predictions":[{"item_id":"x_vo"`, `"popular"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			data, err := json.Marshal(&tt.result)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("Marshal() = %s, want %s", data, tt.want)
			}
			if strings.Contains(string(data), tt.notWant) {
				t.Errorf("Marshal() = %s, should not contain %s", data, tt.notWant)
			}
			if strings.Contains(string(data), "null") {
				t.Errorf("Marshal() = %s, contains null", data)
			}
		})
	}
}

func TestCollaborativeNoCandidatesWithLanguageFilter(t *testing.T) {
	t.Parallel()

	src := newSource("x_vo", "y_vo", "z_vo")
	src.rate("a", "x_vo", 5)
	src.rate("a", "y_vo", 5)
	src.rate("b", "x_vo", 5)
	src.rate("b", "y_vo", 4)
	src.rate("b", "z_vo", 5)
	e := newTestEngine(t, nil, src, nil)

	// The only prediction (z_vo) is outside the vf catalog.
	res, err := e.Collaborative(context.Background(), "a", CollaborativeQuery{Language: "vf"})
	if err != nil {
		t.Fatalf("Collaborative() error = %v", err)
	}
	if res.Strategy != StrategyPopularity {
		t.Errorf("Collaborative(vf) strategy = %s, want popularity", res.Strategy)
	}
	if res.Popular == nil || len(res.Popular) != 0 {
		t.Errorf("Collaborative(vf) popular = %#v, want empty non-nil list", res.Popular)
	}
}

func TestUnknownUser(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil, newSource("x_vo"), nil)
	ctx := context.Background()
	if _, err := e.Collaborative(ctx, "ghost", CollaborativeQuery{}); !models.IsNotFound(err) {
		t.Errorf("Collaborative(unknown) error = %v, want NotFoundError", err)
	}
	if _, err := e.Hybrid(ctx, "ghost", HybridQuery{}); !models.IsNotFound(err) {
		t.Errorf("Hybrid(unknown) error = %v, want NotFoundError", err)
	}
}

func TestHybridZeroRatingUserEqualsPopular(t *testing.T) {
	t.Parallel()

	src := newSource("a_vo", "b_vo", "c_vf", "d_vo")
	src.users["newbie"] = true
	src.rate("u1", "a_vo", 3)
	src.rate("u2", "b_vo", 5)
	src.rate("u3", "b_vo", 4)
	src.rate("u1", "c_vf", 5)
	e := newTestEngine(t, nil, src, nil)
	ctx := context.Background()

	const k = 3
	popular, err := e.Popular(ctx, PopularQuery{Limit: k})
	if err != nil {
		t.Fatalf("Popular() error = %v", err)
	}
	hybrid, err := e.Hybrid(ctx, "newbie", HybridQuery{Limit: k})
	if err != nil {
		t.Fatalf("Hybrid() error = %v", err)
	}
	if hybrid.Strategy != StrategyPopularity || hybrid.FallbackReason != ReasonNoRatings {
		t.Errorf("Hybrid() strategy = %s (%s)", hybrid.Strategy, hybrid.FallbackReason)
	}
	if len(hybrid.Items) != len(popular) {
		t.Fatalf("Hybrid() = %+v, Popular() = %+v", hybrid.Items, popular)
	}
	for i := range popular {
		if hybrid.Items[i].ItemID != popular[i].ItemID || hybrid.Items[i].Score != popular[i].PopularityScore {
			t.Errorf("item %d: hybrid %+v, popular %+v", i, hybrid.Items[i], popular[i])
		}
	}
}

func TestHybridBlend(t *testing.T) {
	t.Parallel()

	src := newSource("x_vo", "y_vo", "z_vo", "p_vo")
	src.rate("a", "x_vo", 5)
	src.rate("a", "y_vo", 5)
	src.rate("b", "x_vo", 5)
	src.rate("b", "y_vo", 4)
	src.rate("b", "z_vo", 5)
	src.rate("c", "p_vo", 5)
	src.rate("d", "p_vo", 5)
	e := newTestEngine(t, nil, src, nil)

	res, err := e.Hybrid(context.Background(), "a", HybridQuery{Limit: 10})
	if err != nil {
		t.Fatalf("Hybrid() error = %v", err)
	}
	if res.Strategy != StrategyHybrid || res.Weights != (Weights{User: 0.7, Popularity: 0.3}) {
		t.Fatalf("Hybrid() = %+v", res)
	}
	for _, it := range res.Items {
		if it.ItemID == "x_vo" || it.ItemID == "y_vo" {
			t.Errorf("Hybrid() recommends already rated %s", it.ItemID)
		}
		if math.IsNaN(it.Score) || math.IsInf(it.Score, 0) {
			t.Errorf("Hybrid() score for %s is not finite", it.ItemID)
		}
	}
	if len(res.Items) != 2 || res.Items[0].ItemID != "z_vo" || res.Items[1].ItemID != "p_vo" {
		t.Fatalf("Hybrid() items = %+v, want z_vo then p_vo", res.Items)
	}

	z := res.Items[0]
	if math.Abs(z.Score-(0.7*z.CollaborativeScore+0.3*z.PopularityScore)) > 1e-12 {
		t.Errorf("z_vo = %+v, score is not the weighted sum", z)
	}
	p := res.Items[1]
	if p.CollaborativeScore != 0 || math.Abs(p.PopularityScore-5) > 1e-12 {
		t.Errorf("p_vo = %+v, want popularity-only at the top of the scale", p)
	}

	popOnly, err := e.Hybrid(context.Background(), "a", HybridQuery{Weights: &Weights{User: 0, Popularity: 1}})
	if err != nil {
		t.Fatalf("Hybrid(pop only) error = %v", err)
	}
	if popOnly.Items[0].ItemID != "p_vo" {
		t.Errorf("Hybrid(pop only) = %+v, want p_vo first", popOnly.Items)
	}

	if _, err := e.Hybrid(context.Background(), "a", HybridQuery{Weights: &Weights{}}); !models.IsValidation(err) {
		t.Errorf("Hybrid(zero weights) error = %v, want ValidationError", err)
	}
}

func TestSourceErrorsPropagate(t *testing.T) {
	t.Parallel()

	src := newSource("x_vo")
	src.users["a"] = true
	src.err = errors.New("disk on fire")
	e := newTestEngine(t, nil, src, nil)

	if _, err := e.Popular(context.Background(), PopularQuery{}); err == nil || models.IsValidation(err) {
		t.Errorf("Popular() error = %v, want storage error", err)
	}
	if _, err := e.Hybrid(context.Background(), "a", HybridQuery{}); err == nil {
		t.Error("Hybrid() should surface storage errors")
	}
}

func TestLimitResolution(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.DefaultLimit = 2
	cfg.MaxLimit = 3
	e := newTestEngine(t, cfg, newSource("a_vo", "b_vo", "c_vo", "d_vo"), nil)

	tests := []struct {
		limit int
		want  int
	}{
		{0, 2},
		{1, 1},
		{10, 3},
	}
	for _, tt := range tests {
		got, err := e.Popular(context.Background(), PopularQuery{Limit: tt.limit})
		if err != nil {
			t.Fatalf("Popular() error = %v", err)
		}
		if len(got) != tt.want {
			t.Errorf("Popular(limit=%d) returned %d items, want %d", tt.limit, len(got), tt.want)
		}
	}
}
