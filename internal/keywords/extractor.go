// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package keywords

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/tomtom215/serielens/internal/index"
	"github.com/tomtom215/serielens/internal/models"
	"github.com/tomtom215/serielens/internal/textproc"
)

// Scoring exponents. High idf dominates so keywords are specific to the
// item; occurrence is damped.
const (
	idfExponent        = 2.5
	occurrenceExponent = 0.8
	minTermLength      = 3
)

// Config controls extraction.
type Config struct {
	// PerItem is how many keywords are kept per item.
	PerItem int

	// MaxCandidates caps how many nonzero row terms are examined, by weight.
	MaxCandidates int

	// MinOccurrences drops terms seen fewer times in the item text.
	MinOccurrences int
}

// DefaultConfig returns the standard extraction settings.
func DefaultConfig() Config {
	return Config{PerItem: 200, MaxCandidates: 5000, MinOccurrences: 2}
}

// Extractor ranks per-item keywords from a fitted index.
type Extractor struct {
	cfg       Config
	stopwords map[string]textproc.StopwordSet
	logger    zerolog.Logger
}

// NewExtractor creates an extractor. Zero config fields take defaults.
func NewExtractor(cfg Config, logger zerolog.Logger) *Extractor {
	def := DefaultConfig()
	if cfg.PerItem <= 0 {
		cfg.PerItem = def.PerItem
	}
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = def.MaxCandidates
	}
	if cfg.MinOccurrences <= 0 {
		cfg.MinOccurrences = def.MinOccurrences
	}
	return &Extractor{
		cfg: cfg,
		stopwords: map[string]textproc.StopwordSet{
			models.LanguageVF: Stopwords(models.LanguageVF),
			models.LanguageVO: Stopwords(models.LanguageVO),
			"":                Stopwords(""),
		},
		logger: logger.With().Str("component", "keywords").Logger(),
	}
}

func (e *Extractor) stopwordsFor(language string) textproc.StopwordSet {
	if s, ok := e.stopwords[language]; ok {
		return s
	}
	return e.stopwords[""]
}

// Extract computes keywords for every indexed item. docs supplies the
// cleaned text each item was indexed from. Items without any qualifying
// term are left out of the result.
func (e *Extractor) Extract(ctx context.Context, idx *index.SearchIndex, docs []models.Document) (index.KeywordSet, error) {
	texts := make(map[string]string, len(docs))
	for _, d := range docs {
		texts[d.ItemID] = d.Text
	}

	set := make(index.KeywordSet, idx.Len())
	for i := 0; i < idx.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item := idx.Item(i)
		text, ok := texts[item.ID]
		if !ok {
			return nil, fmt.Errorf("keywords: no document text for indexed item %q", item.ID)
		}
		kws := e.ExtractItem(idx, i, text)
		if len(kws) == 0 {
			e.logger.Warn().Str("item_id", item.ID).Msg("No keywords extracted")
			continue
		}
		set[item.ID] = kws
	}

	e.logger.Info().Int("items", idx.Len()).Int("with_keywords", len(set)).Msg("Keywords extracted")
	return set, nil
}

// ExtractItem ranks the keywords of row i given the item's cleaned text.
func (e *Extractor) ExtractItem(idx *index.SearchIndex, i int, text string) []models.Keyword {
	stop := e.stopwordsFor(idx.Item(i).Language)
	occurrences := newOccurrenceCounter(strings.Fields(text))

	var out []models.Keyword
	for _, entry := range e.candidates(idx.Row(i)) {
		term := idx.Term(entry.Col)
		if !qualifies(term, stop) {
			continue
		}
		occ := occurrences.count(term)
		if occ < e.cfg.MinOccurrences {
			continue
		}
		score := math.Pow(idx.IDF(entry.Col), idfExponent) *
			math.Pow(float64(occ), occurrenceExponent) *
			entry.Weight
		out = append(out, models.Keyword{Term: term, Score: score})
	}

	sort.Slice(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].Term < out[b].Term
	})
	if len(out) > e.cfg.PerItem {
		out = out[:e.cfg.PerItem]
	}
	return out
}

// candidates returns the nonzero entries of row, limited to the
// MaxCandidates heaviest ones.
func (e *Extractor) candidates(row index.Vector) index.Vector {
	nonzero := make(index.Vector, 0, len(row))
	for _, en := range row {
		if en.Weight > 0 {
			nonzero = append(nonzero, en)
		}
	}
	if len(nonzero) <= e.cfg.MaxCandidates {
		return nonzero
	}
	sort.Slice(nonzero, func(a, b int) bool {
		if nonzero[a].Weight != nonzero[b].Weight {
			return nonzero[a].Weight > nonzero[b].Weight
		}
		return nonzero[a].Col < nonzero[b].Col
	})
	return nonzero[:e.cfg.MaxCandidates]
}

func qualifies(term string, stop textproc.StopwordSet) bool {
	if utf8.RuneCountInString(term) < minTermLength {
		return false
	}
	if strings.IndexFunc(term, unicode.IsDigit) >= 0 {
		return false
	}
	return !stop.Contains(term)
}

// occurrenceCounter counts whole-token, non-overlapping occurrences of
// unigrams and bigrams in one token stream.
type occurrenceCounter struct {
	unigrams map[string]int
	bigrams  map[string]int
}

func newOccurrenceCounter(tokens []string) *occurrenceCounter {
	c := &occurrenceCounter{
		unigrams: make(map[string]int, len(tokens)),
		bigrams:  make(map[string]int, len(tokens)),
	}
	for _, t := range tokens {
		c.unigrams[t]++
	}
	// A pair only counts when it starts at or after the end of the last
	// counted occurrence of the same pair ("a a a" holds one "a a").
	nextFree := make(map[string]int)
	for i := 0; i+1 < len(tokens); i++ {
		pair := tokens[i] + " " + tokens[i+1]
		if start, seen := nextFree[pair]; seen && i < start {
			continue
		}
		c.bigrams[pair]++
		nextFree[pair] = i + 2
	}
	return c
}

func (c *occurrenceCounter) count(term string) int {
	if strings.Contains(term, " ") {
		return c.bigrams[term]
	}
	return c.unigrams[term]
}
