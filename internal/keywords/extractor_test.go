// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package keywords

import (
	"context"
	"io"
	"testing"

	"github.com/tomtom215/serielens/internal/index"
	"github.com/tomtom215/serielens/internal/logging"
	"github.com/tomtom215/serielens/internal/models"
	"github.com/tomtom215/serielens/internal/textproc"
)

func build(t *testing.T, docs []models.Document) *index.SearchIndex {
	t.Helper()
	idx, err := index.NewBuilder(index.DefaultParams(), logging.NewTestLogger(io.Discard)).Build(context.Background(), docs)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return idx
}

func terms(kws []models.Keyword) []string {
	out := make([]string, len(kws))
	for i, k := range kws {
		out[i] = k.Term
	}
	return out
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func TestExtract(t *testing.T) {
	t.Parallel()

	docs := []models.Document{
		{ItemID: "lost_vf", Language: "vf", Text: "crash avion ile crash avion ile dharma"},
		{ItemID: "lost_vo", Language: "vo", Text: "yeah yeah island crash island"},
		{ItemID: "breaking_bad_vo", Language: "vo", Text: "chemistry meth chemistry"},
	}
	idx := build(t, docs)

	set, err := NewExtractor(DefaultConfig(), logging.NewTestLogger(io.Discard)).Extract(context.Background(), idx, docs)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	vf := terms(set["lost_vf"])
	for _, want := range []string{"avion", "crash", "ile", "crash avion", "avion ile"} {
		if indexOf(vf, want) < 0 {
			t.Errorf("lost_vf keywords %v missing %q", vf, want)
		}
	}
	for _, banned := range []string{"dharma", "ile crash"} {
		if indexOf(vf, banned) >= 0 {
			t.Errorf("lost_vf keywords %v should not contain %q (seen once)", vf, banned)
		}
	}
	if indexOf(vf, "avion") > indexOf(vf, "crash") {
		t.Errorf("avion (item-specific) should outrank crash (shared): %v", vf)
	}

	vo := terms(set["lost_vo"])
	if indexOf(vo, "yeah") >= 0 {
		t.Errorf("lost_vo keywords %v should drop the filler %q", vo, "yeah")
	}
	if indexOf(vo, "island") < 0 {
		t.Errorf("lost_vo keywords %v missing island", vo)
	}

	for id, kws := range set {
		for i := 1; i < len(kws); i++ {
			if kws[i-1].Score < kws[i].Score {
				t.Errorf("%s keywords not sorted by score: %+v", id, kws)
			}
		}
	}
}

func TestExtractTieBreakAndLimits(t *testing.T) {
	t.Parallel()

	docs := []models.Document{
		{ItemID: "a_vo", Language: "vo", Text: "alpha beta alpha beta"},
		{ItemID: "b_vo", Language: "vo", Text: "gamma"},
	}
	idx := build(t, docs)
	row, _ := idx.Position("a_vo")

	all := NewExtractor(DefaultConfig(), logging.NewTestLogger(io.Discard)).ExtractItem(idx, row, docs[0].Text)
	got := terms(all)
	want := []string{"alpha", "alpha beta", "beta"}
	if len(got) != len(want) {
		t.Fatalf("keywords = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keywords = %v, want equal scores ordered lexically %v", got, want)
			break
		}
	}

	limited := NewExtractor(Config{PerItem: 1}, logging.NewTestLogger(io.Discard)).ExtractItem(idx, row, docs[0].Text)
	if len(limited) != 1 || limited[0].Term != "alpha" {
		t.Errorf("PerItem=1 keywords = %+v, want [alpha]", limited)
	}

	oneCandidate := NewExtractor(Config{MaxCandidates: 1}, logging.NewTestLogger(io.Discard)).ExtractItem(idx, row, docs[0].Text)
	if len(oneCandidate) != 1 {
		t.Errorf("MaxCandidates=1 keywords = %+v, want a single keyword", oneCandidate)
	}
}

func TestExtractMissingText(t *testing.T) {
	t.Parallel()

	docs := []models.Document{{ItemID: "a_vo", Language: "vo", Text: "alpha alpha"}}
	idx := build(t, docs)
	_, err := NewExtractor(DefaultConfig(), logging.NewTestLogger(io.Discard)).Extract(context.Background(), idx, nil)
	if err == nil {
		t.Fatal("Extract() without document text should fail")
	}
}

func TestQualifies(t *testing.T) {
	t.Parallel()

	stop := Stopwords("vo")
	tests := []struct {
		term string
		want bool
	}{
		{"island", true},
		{"ab", false},
		{"abc1", false},
		{"people", false},
		{"plane crash", true},
	}
	for _, tt := range tests {
		if got := qualifies(tt.term, stop); got != tt.want {
			t.Errorf("qualifies(%q) = %v, want %v", tt.term, got, tt.want)
		}
	}
}

func TestOccurrenceCounter(t *testing.T) {
	t.Parallel()

	c := newOccurrenceCounter([]string{"a", "a", "a", "b", "a", "a"})
	if got := c.count("a"); got != 5 {
		t.Errorf("count(a) = %d, want 5", got)
	}
	if got := c.count("a a"); got != 2 {
		t.Errorf("count(a a) = %d, want 2 non-overlapping", got)
	}
	if got := c.count("a b"); got != 1 {
		t.Errorf("count(a b) = %d, want 1", got)
	}
	if got := c.count("b b"); got != 0 {
		t.Errorf("count(b b) = %d, want 0", got)
	}
}

func TestStopwordsByLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		language string
		word     string
		want     bool
	}{
		{"vf", "voila", true},
		{"vf", "peut etre", true},
		{"vf", "yeah", false},
		{"vo", "gonna", true},
		{"vo", "chose", false},
		{"", "chose", true},
		{"", "gonna", true},
	}
	sets := map[string]textproc.StopwordSet{}
	for _, tt := range tests {
		s, ok := sets[tt.language]
		if !ok {
			s = Stopwords(tt.language)
			sets[tt.language] = s
		}
		if got := s.Contains(tt.word); got != tt.want {
			t.Errorf("Stopwords(%q).Contains(%q) = %v, want %v", tt.language, tt.word, got, tt.want)
		}
	}
}
