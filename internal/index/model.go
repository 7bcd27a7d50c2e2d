// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package index

import (
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/serielens/internal/models"
)

// Params are the vectorizer settings an index was built with.
type Params struct {
	// MaxFeatures keeps the most frequent terms corpus-wide.
	MaxFeatures int `json:"max_features"`

	// MinDF is the minimum number of documents containing a term.
	MinDF int `json:"min_df"`

	// MaxDF is the maximum fraction of documents containing a term.
	MaxDF float64 `json:"max_df"`
}

// DefaultParams returns the standard vectorizer settings.
func DefaultParams() Params {
	return Params{MaxFeatures: 50000, MinDF: 1, MaxDF: 1.0}
}

// Validate checks the parameter ranges.
func (p Params) Validate() error {
	switch {
	case p.MaxFeatures < 1:
		return models.NewValidationError("max_features", "must be at least 1", p.MaxFeatures)
	case p.MinDF < 1:
		return models.NewValidationError("min_df", "must be at least 1", p.MinDF)
	case p.MaxDF <= 0 || p.MaxDF > 1:
		return models.NewValidationError("max_df", "must be in (0, 1]", p.MaxDF)
	}
	return nil
}

// SearchIndex is an immutable fitted vector space model. Row i of the
// matrix, Items[i] and the i-th language/title always describe the same
// item. A rebuild produces a new SearchIndex; nothing mutates one in place.
type SearchIndex struct {
	buildID string
	builtAt time.Time
	params  Params

	vocabulary []string
	terms      map[string]int
	idf        []float64

	items    []models.Item
	position map[string]int
	rows     []Vector
}

// newSearchIndex assembles an index and checks its alignment invariants.
func newSearchIndex(buildID string, builtAt time.Time, params Params, vocabulary []string, idf []float64, items []models.Item, rows []Vector) (*SearchIndex, error) {
	if len(vocabulary) != len(idf) {
		return nil, fmt.Errorf("index: vocabulary has %d terms but idf has %d values", len(vocabulary), len(idf))
	}
	if len(items) != len(rows) {
		return nil, fmt.Errorf("index: %d items but %d matrix rows", len(items), len(rows))
	}

	terms := make(map[string]int, len(vocabulary))
	for i, t := range vocabulary {
		if i > 0 && vocabulary[i-1] >= t {
			return nil, fmt.Errorf("index: vocabulary not strictly sorted at %d (%q)", i, t)
		}
		terms[t] = i
	}
	for i, v := range idf {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("index: idf[%d] is not finite", i)
		}
	}

	position := make(map[string]int, len(items))
	for i, it := range items {
		if _, dup := position[it.ID]; dup {
			return nil, models.NewValidationError("item_id", "must be unique", it.ID)
		}
		position[it.ID] = i
	}
	for r, row := range rows {
		for k, e := range row {
			if e.Col < 0 || e.Col >= len(vocabulary) {
				return nil, fmt.Errorf("index: row %d references column %d outside vocabulary", r, e.Col)
			}
			if k > 0 && row[k-1].Col >= e.Col {
				return nil, fmt.Errorf("index: row %d is not sorted by column", r)
			}
		}
	}

	return &SearchIndex{
		buildID:    buildID,
		builtAt:    builtAt,
		params:     params,
		vocabulary: vocabulary,
		terms:      terms,
		idf:        idf,
		items:      items,
		position:   position,
		rows:       rows,
	}, nil
}

// BuildID identifies the build that produced the index.
func (s *SearchIndex) BuildID() string { return s.buildID }

// BuiltAt is when the index was built.
func (s *SearchIndex) BuiltAt() time.Time { return s.builtAt }

// Params returns the vectorizer settings used for the build.
func (s *SearchIndex) Params() Params { return s.params }

// Len returns the number of indexed items.
func (s *SearchIndex) Len() int { return len(s.items) }

// VocabularySize returns the number of terms.
func (s *SearchIndex) VocabularySize() int { return len(s.vocabulary) }

// Term returns the term of column col.
func (s *SearchIndex) Term(col int) string { return s.vocabulary[col] }

// Column returns the column of term.
func (s *SearchIndex) Column(term string) (int, bool) {
	c, ok := s.terms[term]
	return c, ok
}

// IDF returns the inverse document frequency of column col.
func (s *SearchIndex) IDF(col int) float64 { return s.idf[col] }

// Item returns the item at row i.
func (s *SearchIndex) Item(i int) models.Item { return s.items[i] }

// Items returns a copy of the indexed items in row order.
func (s *SearchIndex) Items() []models.Item {
	out := make([]models.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Position returns the row of itemID.
func (s *SearchIndex) Position(itemID string) (int, bool) {
	p, ok := s.position[itemID]
	return p, ok
}

// Row returns the unit-length tf-idf row of item i. Callers must not modify it.
func (s *SearchIndex) Row(i int) Vector { return s.rows[i] }

// Vectorize projects cleaned tokens onto the vocabulary as an L2-normalized
// tf-idf vector. Terms outside the vocabulary contribute nothing.
func (s *SearchIndex) Vectorize(tokens []string) Vector {
	counts := make(map[int]int)
	for _, t := range Terms(tokens) {
		if c, ok := s.terms[t]; ok {
			counts[c]++
		}
	}
	weights := make(map[int]float64, len(counts))
	for c, n := range counts {
		weights[c] = float64(n) * s.idf[c]
	}
	v := newVector(weights)
	v.Normalize()
	return v
}

// Similarity returns the cosine similarity between a normalized query
// vector and row i.
func (s *SearchIndex) Similarity(query Vector, i int) float64 {
	return Dot(query, s.rows[i])
}
