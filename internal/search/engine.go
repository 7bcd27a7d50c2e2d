// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package search

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/tomtom215/serielens/internal/config"
	"github.com/tomtom215/serielens/internal/index"
	"github.com/tomtom215/serielens/internal/logging"
	"github.com/tomtom215/serielens/internal/metrics"
	"github.com/tomtom215/serielens/internal/models"
	"github.com/tomtom215/serielens/internal/textproc"
)

// minBoostTokenLength is the shortest query token used for partial boosts.
const minBoostTokenLength = 3

// Config controls result sizes and keyword boosts.
type Config struct {
	// MaxLimit caps the number of results of one query.
	MaxLimit int

	// ExactBoost is added per keyword found inside the query, times its score.
	ExactBoost float64

	// PartialBoost is added per query token found inside a keyword, times its score.
	PartialBoost float64
}

// DefaultConfig returns the standard search settings.
func DefaultConfig() Config {
	return Config{MaxLimit: 100, ExactBoost: 0.5, PartialBoost: 0.2}
}

// ConfigFrom maps the application config. DefaultLimit belongs to the
// API layer and is not carried over.
func ConfigFrom(cfg config.SearchConfig) Config {
	return Config{MaxLimit: cfg.MaxLimit, ExactBoost: cfg.ExactBoost, PartialBoost: cfg.PartialBoost}
}

// Result is one ranked item.
type Result struct {
	ItemID   string `json:"item_id"`
	Title    string `json:"title,omitempty"`
	Language string `json:"language"`

	// Score is Similarity plus Boost.
	Score float64 `json:"score"`

	// Similarity is the cosine between the query and the item, in [0,1].
	Similarity float64 `json:"similarity"`

	// Boost is the keyword adjustment added on top of Similarity.
	Boost float64 `json:"boost"`
}

// Engine answers free-text queries against the active index snapshot.
type Engine struct {
	holder  *index.Holder
	cleaner *textproc.Cleaner
	cfg     Config
	logger  zerolog.Logger
}

// NewEngine creates a search engine. The cleaner must be configured like
// the one used at index time.
func NewEngine(holder *index.Holder, cleaner *textproc.Cleaner, cfg Config, logger zerolog.Logger) *Engine {
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = DefaultConfig().MaxLimit
	}
	return &Engine{
		holder:  holder,
		cleaner: cleaner,
		cfg:     cfg,
		logger:  logger.With().Str("component", "search").Logger(),
	}
}

// Search ranks items for query. language restricts candidates to one
// variant before ranking; "" searches every item. The result is never nil.
func (e *Engine) Search(ctx context.Context, query string, limit int, language string) ([]Result, error) {
	start := time.Now()
	results, err := e.search(query, limit, language)
	switch {
	case err == nil:
		metrics.RecordSearch(time.Since(start), "ok")
	case models.IsDataUnavailable(err):
		metrics.RecordSearch(time.Since(start), "unavailable")
	default:
		metrics.RecordSearch(time.Since(start), "invalid")
	}
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Debug().
		Str("component", "search").
		Str("language", language).
		Int("limit", limit).
		Int("results", len(results)).
		Dur("duration", time.Since(start)).
		Msg("Search served")
	return results, nil
}

func (e *Engine) search(query string, limit int, language string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("query", "must not be empty", nil)
	}
	if limit <= 0 {
		return nil, models.NewValidationError("limit", "must be positive", limit)
	}
	if limit > e.cfg.MaxLimit {
		limit = e.cfg.MaxLimit
	}
	language = models.NormalizeLanguage(language)
	if err := models.ValidateLanguage(language); err != nil {
		return nil, err
	}

	snap, err := e.holder.Require("search")
	if err != nil {
		return nil, err
	}
	idx := snap.Index

	qv := idx.Vectorize(e.cleaner.Tokens(query, language))
	boostText := textproc.Fold(query)
	boostTokens := distinctTokens(boostText)

	results := make([]Result, 0, limit)
	for i := 0; i < idx.Len(); i++ {
		item := idx.Item(i)
		if language != "" && item.Language != language {
			continue
		}
		sim := idx.Similarity(qv, i)
		boost := e.boost(snap.Keywords[item.ID], boostText, boostTokens)
		score := sim + boost
		if score <= 0 {
			continue
		}
		results = append(results, Result{
			ItemID:     item.ID,
			Title:      item.Title,
			Language:   item.Language,
			Score:      score,
			Similarity: sim,
			Boost:      boost,
		})
	}

	// Rows are in item id order, so a stable sort keeps that order on ties.
	sort.SliceStable(results, func(a, b int) bool { return results[a].Score > results[b].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// boost sums the keyword adjustments of one item. Every matching keyword
// and every matching token contributes.
func (e *Engine) boost(keywords []models.Keyword, text string, tokens []string) float64 {
	var total float64
	for _, kw := range keywords {
		if strings.Contains(text, kw.Term) {
			total += kw.Score * e.cfg.ExactBoost
		}
		for _, tok := range tokens {
			if strings.Contains(kw.Term, tok) {
				total += kw.Score * e.cfg.PartialBoost
			}
		}
	}
	return total
}

// distinctTokens returns the whitespace tokens of text that are long
// enough for partial matching, without duplicates, in first-seen order.
func distinctTokens(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range strings.Fields(text) {
		if utf8.RuneCountInString(tok) < minBoostTokenLength || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}
