// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package recommend

import "github.com/goccy/go-json"

// Strategy names the scoring path that produced a result.
type Strategy string

const (
	StrategyPopularity    Strategy = "popularity"
	StrategyCollaborative Strategy = "collaborative"
	StrategyHybrid        Strategy = "hybrid"
)

// FallbackReason explains why a personalized request was served by
// popularity. It is empty when no fallback happened.
type FallbackReason string

const (
	ReasonNone           FallbackReason = ""
	ReasonNoRatings      FallbackReason = "no_ratings"
	ReasonNoSimilarUsers FallbackReason = "no_similar_users"
	ReasonNoCandidates   FallbackReason = "no_candidates"
)

// PopularItem is one entry of the popularity ranking.
type PopularItem struct {
	ItemID          string  `json:"item_id"`
	Title           string  `json:"title,omitempty"`
	Language        string  `json:"language"`
	PopularityScore float64 `json:"popularity_score"`
	AvgRating       float64 `json:"avg_rating"`
	NumRatings      int     `json:"num_ratings"`
}

// PredictedItem is one collaborative prediction.
type PredictedItem struct {
	ItemID          string  `json:"item_id"`
	Title           string  `json:"title,omitempty"`
	Language        string  `json:"language"`
	PredictedRating float64 `json:"predicted_rating"`
	Contributors    int     `json:"contributors"`
}

// HybridItem is one blended recommendation. In a blend PopularityScore is
// normalized onto the 0-5 rating scale. On fallback it is the raw
// popularity score, Score equals it and CollaborativeScore is zero.
type HybridItem struct {
	ItemID             string  `json:"item_id"`
	Title              string  `json:"title,omitempty"`
	Language           string  `json:"language"`
	Score              float64 `json:"hybrid_score"`
	CollaborativeScore float64 `json:"collaborative_score"`
	PopularityScore    float64 `json:"popularity_score"`
}

// CollaborativeResult carries either predictions or, after a fallback,
// the popularity ranking. Exactly one of the two lists is non-nil.
type CollaborativeResult struct {
	UserID         string          `json:"user_id"`
	Strategy       Strategy        `json:"strategy"`
	FallbackReason FallbackReason  `json:"fallback_reason,omitempty"`
	Predictions    []PredictedItem `json:"predictions"`
	Popular        []PopularItem   `json:"popular"`
}

// MarshalJSON emits only the list Strategy selects, as [] when empty.
func (r CollaborativeResult) MarshalJSON() ([]byte, error) {
	out := struct {
		UserID         string           `json:"user_id"`
		Strategy       Strategy         `json:"strategy"`
		FallbackReason FallbackReason   `json:"fallback_reason,omitempty"`
		Predictions    *[]PredictedItem `json:"predictions,omitempty"`
		Popular        *[]PopularItem   `json:"popular,omitempty"`
	}{UserID: r.UserID, Strategy: r.Strategy, FallbackReason: r.FallbackReason}

	if r.Strategy == StrategyCollaborative {
		preds := r.Predictions
		if preds == nil {
			preds = []PredictedItem{}
		}
		out.Predictions = &preds
	} else {
		popular := r.Popular
		if popular == nil {
			popular = []PopularItem{}
		}
		out.Popular = &popular
	}
	return json.Marshal(out)
}

// Items returns the number of recommended items, whichever list holds them.
func (r *CollaborativeResult) Items() int {
	if r.Strategy == StrategyCollaborative {
		return len(r.Predictions)
	}
	return len(r.Popular)
}

// HybridResult is the outcome of a hybrid request.
type HybridResult struct {
	UserID         string         `json:"user_id"`
	Strategy       Strategy       `json:"strategy"`
	FallbackReason FallbackReason `json:"fallback_reason,omitempty"`
	Weights        Weights        `json:"weights"`
	Items          []HybridItem   `json:"items"`
}

// PopularQuery parameterizes Popular.
type PopularQuery struct {
	Limit      int
	Language   string
	MinRatings int
	MinAverage float64
}

// CollaborativeQuery parameterizes Collaborative.
type CollaborativeQuery struct {
	Limit    int
	Language string
}

// HybridQuery parameterizes Hybrid. A nil Weights uses the configured
// defaults.
type HybridQuery struct {
	Limit   int
	Weights *Weights
}

// Weights are the hybrid blend coefficients.
type Weights struct {
	User       float64 `json:"user"`
	Popularity float64 `json:"popularity"`
}
