// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package index

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/serielens/internal/models"
)

// Builder fits a SearchIndex over a batch of cleaned documents.
type Builder struct {
	params Params
	logger zerolog.Logger
	now    func() time.Time
}

// NewBuilder creates a builder with the given vectorizer settings.
func NewBuilder(params Params, logger zerolog.Logger) *Builder {
	return &Builder{
		params: params,
		logger: logger.With().Str("component", "indexer").Logger(),
		now:    time.Now,
	}
}

type termStat struct {
	df    int
	total int
}

// Build fits the vocabulary, idf vector and document matrix. Documents are
// processed sorted by item id, so the same document set always yields the
// same vocabulary, idf values and rows regardless of input order.
func (b *Builder) Build(ctx context.Context, docs []models.Document) (*SearchIndex, error) {
	if err := b.params.Validate(); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, models.NewValidationError("documents", "must not be empty", 0)
	}

	sorted := make([]models.Document, len(docs))
	copy(sorted, docs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ItemID < sorted[j].ItemID })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].ItemID == sorted[i-1].ItemID {
			return nil, models.NewValidationError("item_id", "must be unique", sorted[i].ItemID)
		}
	}

	n := len(sorted)
	counts := make([]map[string]int, n)
	stats := make(map[string]*termStat)
	for i, d := range sorted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		counts[i] = CountTerms(d.Text)
		for term, c := range counts[i] {
			st, ok := stats[term]
			if !ok {
				st = &termStat{}
				stats[term] = st
			}
			st.df++
			st.total += c
		}
	}

	vocabulary := b.selectTerms(stats, n)
	if len(vocabulary) == 0 {
		return nil, models.NewValidationError("vocabulary", "no term survives document frequency pruning", len(stats))
	}

	idf := make([]float64, len(vocabulary))
	columns := make(map[string]int, len(vocabulary))
	for c, term := range vocabulary {
		columns[term] = c
		idf[c] = SmoothIDF(n, stats[term].df)
	}

	rows := make([]Vector, n)
	items := make([]models.Item, n)
	for i, d := range sorted {
		weights := make(map[int]float64, len(counts[i]))
		for term, tf := range counts[i] {
			if c, ok := columns[term]; ok {
				weights[c] = float64(tf) * idf[c]
			}
		}
		row := newVector(weights)
		row.Normalize()
		rows[i] = row
		items[i] = models.Item{ID: d.ItemID, Title: d.Title, Language: d.Language}
	}

	idx, err := newSearchIndex(uuid.NewString(), b.now().UTC(), b.params, vocabulary, idf, items, rows)
	if err != nil {
		return nil, err
	}

	b.logger.Info().
		Str("build_id", idx.BuildID()).
		Int("documents", n).
		Int("candidate_terms", len(stats)).
		Int("vocabulary", len(vocabulary)).
		Msg("Vector space built")
	return idx, nil
}

// selectTerms applies min_df, max_df and max_features, then returns the
// surviving terms in lexical order.
func (b *Builder) selectTerms(stats map[string]*termStat, n int) []string {
	maxDocs := b.params.MaxDF * float64(n)
	kept := make([]string, 0, len(stats))
	for term, st := range stats {
		if st.df >= b.params.MinDF && float64(st.df) <= maxDocs {
			kept = append(kept, term)
		}
	}

	if len(kept) > b.params.MaxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			ti, tj := stats[kept[i]].total, stats[kept[j]].total
			if ti != tj {
				return ti > tj
			}
			return kept[i] < kept[j]
		})
		kept = kept[:b.params.MaxFeatures]
	}

	sort.Strings(kept)
	return kept
}

// SmoothIDF is ln((1+n)/(1+df)) + 1.
func SmoothIDF(n, df int) float64 {
	return math.Log(float64(1+n)/float64(1+df)) + 1
}
