// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package search

import (
	"context"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/tomtom215/serielens/internal/config"
	"github.com/tomtom215/serielens/internal/index"
	"github.com/tomtom215/serielens/internal/keywords"
	"github.com/tomtom215/serielens/internal/logging"
	"github.com/tomtom215/serielens/internal/models"
	"github.com/tomtom215/serielens/internal/textproc"
)

func corpus() []models.Document {
	return []models.Document{
		{ItemID: "breaking_bad_vo", Title: "Breaking Bad", Language: "vo", Text: "chemistry teacher meth desert chemistry meth"},
		{ItemID: "friends_vo", Title: "Friends", Language: "vo", Text: "coffee apartment friends coffee"},
		{ItemID: "lost_vf", Title: "Lost", Language: "vf", Text: strings.Repeat("crash avion ile ", 4)},
		{ItemID: "lost_vo", Title: "Lost", Language: "vo", Text: "plane island crash survivors island plane"},
	}
}

func newEngine(t *testing.T, cfg Config, docs []models.Document) *Engine {
	t.Helper()
	logger := logging.NewTestLogger(io.Discard)
	idx, err := index.NewBuilder(index.DefaultParams(), logger).Build(context.Background(), docs)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	kws, err := keywords.NewExtractor(keywords.DefaultConfig(), logger).Extract(context.Background(), idx, docs)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	holder := index.NewHolder()
	holder.Swap(&index.Snapshot{Index: idx, Keywords: kws})
	return NewEngine(holder, textproc.NewCleaner(nil, nil), cfg, logger)
}

func TestSearchRanksMatchingItemFirst(t *testing.T) {
	t.Parallel()

	e := newEngine(t, DefaultConfig(), corpus())
	results, err := e.Search(context.Background(), "crash avion ile", 3, "")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) == 0 || results[0].ItemID != "lost_vf" {
		t.Fatalf("Search() = %+v, want lost_vf first", results)
	}
	if len(results) > 3 {
		t.Errorf("Search() returned %d results, want at most 3", len(results))
	}
	for i, r := range results {
		if r.Similarity < 0 || r.Similarity > 1+1e-12 {
			t.Errorf("results[%d].Similarity = %v, want within [0,1]", i, r.Similarity)
		}
		if math.Abs(r.Score-(r.Similarity+r.Boost)) > 1e-12 {
			t.Errorf("results[%d].Score = %v, want similarity + boost", i, r.Score)
		}
		if r.Score <= 0 {
			t.Errorf("results[%d].Score = %v, want > 0", i, r.Score)
		}
		if i > 0 && results[i-1].Score < r.Score {
			t.Errorf("results not sorted descending: %+v", results)
		}
	}
}

func TestSearchLanguageFilter(t *testing.T) {
	t.Parallel()

	e := newEngine(t, DefaultConfig(), corpus())
	results, err := e.Search(context.Background(), "crash island", 10, "VO")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) == 0 || results[0].ItemID != "lost_vo" {
		t.Fatalf("Search(vo) = %+v, want lost_vo first", results)
	}
	for _, r := range results {
		if r.Language != "vo" {
			t.Errorf("Search(vo) returned %s in language %s", r.ItemID, r.Language)
		}
	}
}

func TestSearchNoOverlap(t *testing.T) {
	t.Parallel()

	e := newEngine(t, DefaultConfig(), corpus())
	results, err := e.Search(context.Background(), "zzzz qqqq", 5, "")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("Search() = %#v, want empty non-nil list", results)
	}
}

func TestSearchTieBreakByItemOrder(t *testing.T) {
	t.Parallel()

	docs := []models.Document{
		{ItemID: "b_vo", Language: "vo", Text: "alpha gamma"},
		{ItemID: "a_vo", Language: "vo", Text: "alpha gamma"},
		{ItemID: "c_vo", Language: "vo", Text: "delta"},
	}
	e := newEngine(t, DefaultConfig(), docs)
	results, err := e.Search(context.Background(), "alpha", 10, "")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 || results[0].ItemID != "a_vo" || results[1].ItemID != "b_vo" {
		t.Errorf("Search() = %+v, want [a_vo b_vo]", results)
	}
	if results[0].Score != results[1].Score {
		t.Errorf("identical documents scored differently: %v vs %v", results[0].Score, results[1].Score)
	}
}

func TestSearchLimitCappedByMaxLimit(t *testing.T) {
	t.Parallel()

	e := newEngine(t, Config{MaxLimit: 1, ExactBoost: 0.5, PartialBoost: 0.2}, corpus())
	results, err := e.Search(context.Background(), "crash", 10, "")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Search() returned %d results, want 1", len(results))
	}
}

func TestSearchErrors(t *testing.T) {
	t.Parallel()

	e := newEngine(t, DefaultConfig(), corpus())
	empty := NewEngine(index.NewHolder(), textproc.NewCleaner(nil, nil), DefaultConfig(), logging.NewTestLogger(io.Discard))

	tests := []struct {
		name     string
		engine   *Engine
		query    string
		limit    int
		language string
		check    func(error) bool
	}{
		{"empty query", e, "   ", 5, "", models.IsValidation},
		{"zero limit", e, "crash", 0, "", models.IsValidation},
		{"negative limit", e, "crash", -1, "", models.IsValidation},
		{"unknown language", e, "crash", 5, "de", models.IsValidation},
		{"no index", empty, "crash", 5, "", models.IsDataUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tt.engine.Search(context.Background(), tt.query, tt.limit, tt.language)
			if !tt.check(err) {
				t.Errorf("Search() error = %v", err)
			}
		})
	}
}

func TestBoost(t *testing.T) {
	t.Parallel()

	e := NewEngine(index.NewHolder(), textproc.NewCleaner(nil, nil), DefaultConfig(), logging.NewTestLogger(io.Discard))
	kws := []models.Keyword{{Term: "island", Score: 1}, {Term: "plane crash", Score: 2}}

	tests := []struct {
		name  string
		query string
		want  float64
	}{
		{"exact keyword in query", "Island!", 0.5},
		{"token inside keyword", "isla", 0.2},
		{"exact and partial both count", "island", 0.5 + 0.2},
		{"bigram keyword and its tokens", "plane crash", 2*0.5 + 2*0.2 + 2*0.2},
		{"short tokens ignored", "is", 0},
		{"accents folded", "ÎSLAND", 0.5 + 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			text := textproc.Fold(tt.query)
			got := e.boost(kws, text, distinctTokens(text))
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("boost(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestConfigFromDefaults(t *testing.T) {
	t.Parallel()

	if got := ConfigFrom(config.Defaults().Search); got != DefaultConfig() {
		t.Errorf("ConfigFrom(defaults) = %+v, want %+v", got, DefaultConfig())
	}
}
