// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package index

import "github.com/tomtom215/serielens/internal/models"

// KeywordSet maps item ids to their keywords, best first.
type KeywordSet map[string][]models.Keyword

// Snapshot is the pair of artifacts produced by one build. Search and
// keyword lookups read a Snapshot and never see half of two builds.
type Snapshot struct {
	Index    *SearchIndex
	Keywords KeywordSet
}

// KeywordsFor returns at most top keywords of itemID. top <= 0 means all.
func (s *Snapshot) KeywordsFor(itemID string, top int) ([]models.Keyword, error) {
	if _, ok := s.Index.Position(itemID); !ok {
		return nil, models.NewNotFoundError("item", itemID)
	}
	kws := s.Keywords[itemID]
	if top > 0 && len(kws) > top {
		kws = kws[:top]
	}
	out := make([]models.Keyword, len(kws))
	copy(out, kws)
	return out, nil
}

// KeywordCount returns how many keywords itemID has.
func (s *Snapshot) KeywordCount(itemID string) int {
	return len(s.Keywords[itemID])
}
