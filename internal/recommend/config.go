// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package recommend

import (
	"fmt"
	"math"

	"github.com/tomtom215/serielens/internal/config"
	"github.com/tomtom215/serielens/internal/models"
)

// Unrated item policies.
const (
	// UnratedZero scores items nobody rated as 0.
	UnratedZero = "zero"

	// UnratedKeywordProxy scores them as KeywordProxyFactor x keyword count.
	UnratedKeywordProxy = "keyword_proxy"
)

// Config contains recommendation settings.
type Config struct {
	// DefaultLimit applies when a request asks for 0 items.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps every request.
	MaxLimit int `json:"max_limit"`

	// MinCommonRatings is the co-rated item count required for two users
	// to be neighbors.
	MinCommonRatings int `json:"min_common_ratings"`

	// Weights are the default hybrid weights.
	Weights Weights `json:"weights"`

	UnratedPolicy      string  `json:"unrated_policy"`
	KeywordProxyFactor float64 `json:"keyword_proxy_factor"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultLimit:       10,
		MaxLimit:           100,
		MinCommonRatings:   2,
		Weights:            Weights{User: 0.7, Popularity: 0.3},
		UnratedPolicy:      UnratedZero,
		KeywordProxyFactor: 0.01,
	}
}

// ConfigFrom maps the application config onto engine settings.
func ConfigFrom(cfg config.RecommendConfig) *Config {
	return &Config{
		DefaultLimit:       cfg.DefaultLimit,
		MaxLimit:           cfg.MaxLimit,
		MinCommonRatings:   cfg.MinCommonRatings,
		Weights:            Weights{User: cfg.UserWeight, Popularity: cfg.PopularityWeight},
		UnratedPolicy:      cfg.UnratedPolicy,
		KeywordProxyFactor: cfg.KeywordProxyFactor,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit must be >= default_limit, got %d < %d", c.MaxLimit, c.DefaultLimit)
	}
	if c.MinCommonRatings < 1 {
		return fmt.Errorf("min_common_ratings must be positive, got %d", c.MinCommonRatings)
	}
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	switch c.UnratedPolicy {
	case UnratedZero, UnratedKeywordProxy:
	default:
		return fmt.Errorf("unrated_policy must be %q or %q, got %q", UnratedZero, UnratedKeywordProxy, c.UnratedPolicy)
	}
	if c.KeywordProxyFactor < 0 || math.IsNaN(c.KeywordProxyFactor) || math.IsInf(c.KeywordProxyFactor, 0) {
		return fmt.Errorf("keyword_proxy_factor must be a non-negative number, got %v", c.KeywordProxyFactor)
	}
	return nil
}

// Validate requires finite, non-negative weights with a positive sum.
func (w Weights) Validate() error {
	for _, v := range []float64{w.User, w.Popularity} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return models.NewValidationError("weights", "must be finite and non-negative", v)
		}
	}
	if w.User+w.Popularity <= 0 {
		return models.NewValidationError("weights", "must not both be zero", nil)
	}
	return nil
}
