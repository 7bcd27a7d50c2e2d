// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/serielens/internal/logging"
	"github.com/tomtom215/serielens/internal/metrics"
	"github.com/tomtom215/serielens/internal/models"
	"github.com/tomtom215/serielens/internal/recommend/algorithms"
)

// DataSource provides the catalog and the current rating set. The ratings
// service implements it.
type DataSource interface {
	GetUser(ctx context.Context, id string) (models.User, error)
	ListItems(ctx context.Context, language string) ([]models.Item, error)
	AllRatings(ctx context.Context) ([]models.RatingEvent, error)
}

// KeywordCounter reports how many keywords an item has. It backs the
// keyword_proxy unrated policy.
type KeywordCounter interface {
	KeywordCount(itemID string) int
}

// Engine computes popularity, collaborative and hybrid recommendations.
// Every call reads the rating set afresh; nothing is cached between calls.
// It is safe for concurrent use.
type Engine struct {
	config   *Config
	source   DataSource
	keywords KeywordCounter
	cf       *algorithms.UserBasedCF
	logger   zerolog.Logger
}

// NewEngine creates a new recommendation engine. keywords may be nil when
// the unrated policy is zero.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, source DataSource, keywords KeywordCounter, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.UnratedPolicy == UnratedKeywordProxy && keywords == nil {
		return nil, fmt.Errorf("invalid config: unrated_policy %q requires a keyword source", UnratedKeywordProxy)
	}

	return &Engine{
		config:   cfg,
		source:   source,
		keywords: keywords,
		cf:       algorithms.NewUserBasedCF(algorithms.KNNConfig{MinCommonRatings: cfg.MinCommonRatings}),
		logger:   logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return *e.config
}

// signalError marks an empty collaborative signal. It never leaves the
// package; callers turn it into a popularity fallback.
type signalError struct {
	reason FallbackReason
}

func (e *signalError) Error() string {
	return fmt.Sprintf("%s: %s", models.ErrInsufficientSignal, e.reason)
}

func (e *signalError) Unwrap() error { return models.ErrInsufficientSignal }

// snapshot is the data one request works on.
type snapshot struct {
	items   []models.Item
	byID    map[string]models.Item
	ratings *algorithms.RatingMatrix
}

func (e *Engine) load(ctx context.Context, language string) (*snapshot, error) {
	items, err := e.source.ListItems(ctx, language)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	events, err := e.source.AllRatings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	byID := make(map[string]models.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	return &snapshot{items: items, byID: byID, ratings: algorithms.NewRatingMatrix(events)}, nil
}

func (e *Engine) resolveLimit(limit int) (int, error) {
	switch {
	case limit < 0:
		return 0, models.NewValidationError("limit", "must be positive", limit)
	case limit == 0:
		return e.config.DefaultLimit, nil
	case limit > e.config.MaxLimit:
		return e.config.MaxLimit, nil
	default:
		return limit, nil
	}
}

func resolveLanguage(language string) (string, error) {
	language = models.NormalizeLanguage(language)
	if err := models.ValidateLanguage(language); err != nil {
		return "", err
	}
	return language, nil
}

// popularity ranks every catalog item of snap. Items nobody rated score
// zero or, under keyword_proxy, KeywordProxyFactor x keyword count.
func (e *Engine) popularity(snap *snapshot) []algorithms.ItemStats {
	ids := make([]string, len(snap.items))
	for i, it := range snap.items {
		ids[i] = it.ID
	}
	stats := algorithms.Popularity(snap.ratings, ids)
	if e.config.UnratedPolicy == UnratedKeywordProxy {
		for i := range stats {
			if stats[i].NumRatings == 0 {
				stats[i].Score = e.config.KeywordProxyFactor * float64(e.keywords.KeywordCount(stats[i].ItemID))
			}
		}
	}
	algorithms.SortByScore(stats)
	return stats
}

func (e *Engine) popularItem(snap *snapshot, st algorithms.ItemStats) PopularItem {
	it := snap.byID[st.ItemID]
	return PopularItem{
		ItemID:          st.ItemID,
		Title:           it.Title,
		Language:        it.Language,
		PopularityScore: st.Score,
		AvgRating:       st.AvgRating,
		NumRatings:      st.NumRatings,
	}
}

// Popular returns the catalog ranked by popularity score, ties broken by
// item id.
func (e *Engine) Popular(ctx context.Context, q PopularQuery) ([]PopularItem, error) {
	start := time.Now()
	limit, err := e.resolveLimit(q.Limit)
	if err != nil {
		return nil, err
	}
	language, err := resolveLanguage(q.Language)
	if err != nil {
		return nil, err
	}
	if q.MinRatings < 0 {
		return nil, models.NewValidationError("min_ratings", "must be non-negative", q.MinRatings)
	}
	if q.MinAverage < 0 || q.MinAverage > models.MaxRating {
		return nil, models.NewValidationError("min_average", "must be between 0 and 5", q.MinAverage)
	}

	snap, err := e.load(ctx, language)
	if err != nil {
		return nil, err
	}

	out := make([]PopularItem, 0, limit)
	for _, st := range e.popularity(snap) {
		if len(out) == limit {
			break
		}
		if st.NumRatings < q.MinRatings || st.AvgRating < q.MinAverage {
			continue
		}
		out = append(out, e.popularItem(snap, st))
	}

	metrics.RecordRecommendation(string(StrategyPopularity), string(StrategyPopularity), "", time.Since(start))
	return out, nil
}

// popularExcluding is the popularity fallback: the ranking without the
// items userID already rated.
func (e *Engine) popularExcluding(snap *snapshot, userID string, limit int) []PopularItem {
	out := make([]PopularItem, 0, limit)
	for _, st := range e.popularity(snap) {
		if len(out) == limit {
			break
		}
		if snap.ratings.HasRated(userID, st.ItemID) {
			continue
		}
		out = append(out, e.popularItem(snap, st))
	}
	return out
}

// collaborativeSignal predicts ratings for catalog items userID has not
// rated. An empty signal is reported as a *signalError.
func (e *Engine) collaborativeSignal(ctx context.Context, snap *snapshot, userID string) ([]algorithms.Prediction, error) {
	if len(snap.ratings.UserRatings(userID)) == 0 {
		return nil, &signalError{reason: ReasonNoRatings}
	}
	neighbors, err := e.cf.Neighbors(ctx, snap.ratings, userID)
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		return nil, &signalError{reason: ReasonNoSimilarUsers}
	}
	inCatalog := func(itemID string) bool {
		_, ok := snap.byID[itemID]
		return ok
	}
	preds := e.cf.Predict(snap.ratings, userID, neighbors, inCatalog)
	if len(preds) == 0 {
		return nil, &signalError{reason: ReasonNoCandidates}
	}
	return preds, nil
}

// fallbackReason extracts the reason from err, or returns false when err
// is a real failure.
func fallbackReason(err error) (FallbackReason, bool) {
	var se *signalError
	if errors.As(err, &se) {
		return se.reason, true
	}
	return ReasonNone, false
}

// Collaborative predicts ratings for items userID has not rated from the
// ratings of similar users. Without usable signal it returns the
// popularity ranking (minus rated items) and says why.
func (e *Engine) Collaborative(ctx context.Context, userID string, q CollaborativeQuery) (*CollaborativeResult, error) {
	start := time.Now()
	if _, err := e.source.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	limit, err := e.resolveLimit(q.Limit)
	if err != nil {
		return nil, err
	}
	language, err := resolveLanguage(q.Language)
	if err != nil {
		return nil, err
	}

	snap, err := e.load(ctx, language)
	if err != nil {
		return nil, err
	}

	result := &CollaborativeResult{UserID: userID, Strategy: StrategyCollaborative}
	preds, err := e.collaborativeSignal(ctx, snap, userID)
	if reason, ok := fallbackReason(err); ok {
		result.Strategy = StrategyPopularity
		result.FallbackReason = reason
		result.Popular = e.popularExcluding(snap, userID, limit)
	} else if err != nil {
		return nil, err
	} else {
		if len(preds) > limit {
			preds = preds[:limit]
		}
		result.Predictions = make([]PredictedItem, len(preds))
		for i, p := range preds {
			it := snap.byID[p.ItemID]
			result.Predictions[i] = PredictedItem{
				ItemID:          p.ItemID,
				Title:           it.Title,
				Language:        it.Language,
				PredictedRating: p.Rating,
				Contributors:    p.Contributors,
			}
		}
	}

	e.observe(ctx, StrategyCollaborative, result.Strategy, result.FallbackReason, userID, result.Items(), start)
	return result, nil
}

// Hybrid blends collaborative predictions with popularity normalized onto
// the rating scale. Without collaborative signal it degrades to the
// popularity ranking (minus rated items) with Score = popularity score.
func (e *Engine) Hybrid(ctx context.Context, userID string, q HybridQuery) (*HybridResult, error) {
	start := time.Now()
	if _, err := e.source.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	limit, err := e.resolveLimit(q.Limit)
	if err != nil {
		return nil, err
	}
	weights := e.config.Weights
	if q.Weights != nil {
		if err := q.Weights.Validate(); err != nil {
			return nil, err
		}
		weights = *q.Weights
	}

	snap, err := e.load(ctx, "")
	if err != nil {
		return nil, err
	}

	result := &HybridResult{UserID: userID, Strategy: StrategyHybrid, Weights: weights}
	preds, err := e.collaborativeSignal(ctx, snap, userID)
	if reason, ok := fallbackReason(err); ok {
		result.Strategy = StrategyPopularity
		result.FallbackReason = reason
		popular := e.popularExcluding(snap, userID, limit)
		result.Items = make([]HybridItem, len(popular))
		for i, p := range popular {
			result.Items[i] = HybridItem{
				ItemID:          p.ItemID,
				Title:           p.Title,
				Language:        p.Language,
				Score:           p.PopularityScore,
				PopularityScore: p.PopularityScore,
			}
		}
	} else if err != nil {
		return nil, err
	} else {
		rated := func(itemID string) bool { return snap.ratings.HasRated(userID, itemID) }
		blended := algorithms.Blend(preds, e.popularity(snap), weights.User, weights.Popularity, rated)
		if len(blended) > limit {
			blended = blended[:limit]
		}
		result.Items = make([]HybridItem, len(blended))
		for i, b := range blended {
			it := snap.byID[b.ItemID]
			result.Items[i] = HybridItem{
				ItemID:             b.ItemID,
				Title:              it.Title,
				Language:           it.Language,
				Score:              b.Score,
				CollaborativeScore: b.Collaborative,
				PopularityScore:    b.Popularity,
			}
		}
	}

	e.observe(ctx, StrategyHybrid, result.Strategy, result.FallbackReason, userID, len(result.Items), start)
	return result, nil
}

func (e *Engine) observe(ctx context.Context, requested, served Strategy, reason FallbackReason, userID string, n int, start time.Time) {
	duration := time.Since(start)
	metrics.RecordRecommendation(string(requested), string(served), string(reason), duration)

	logger := logging.Ctx(ctx)
	if reason != ReasonNone {
		logger.Info().
			Str("user_id", userID).
			Str("strategy", string(requested)).
			Str("reason", string(reason)).
			Msg("Falling back to popularity")
	}
	logger.Debug().
		Str("user_id", userID).
		Str("strategy", string(requested)).
		Str("served_by", string(served)).
		Int("items", n).
		Dur("duration", duration).
		Msg("Recommendations computed")
}
