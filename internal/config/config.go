// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package config

import "time"

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Storage   StorageConfig   `koanf:"storage"`
	Corpus    CorpusConfig    `koanf:"corpus"`
	Index     IndexConfig     `koanf:"index"`
	Keywords  KeywordsConfig  `koanf:"keywords"`
	Search    SearchConfig    `koanf:"search"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`

	// Format is json (production) or console (development).
	// Default: json
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// StorageConfig selects the rating/catalog store backend.
type StorageConfig struct {
	// Backend is memory, badger or sqlite.
	// Default: memory
	Backend string `koanf:"backend" validate:"oneof=memory badger sqlite"`

	// Path is the Badger directory or SQLite file. Ignored for memory.
	Path string `koanf:"path"`
}

// CorpusConfig describes where raw subtitles live and how they are cleaned.
type CorpusConfig struct {
	// Dir is the subtitle root; one sub-directory per series.
	Dir string `koanf:"dir"`

	// Extensions lists the file extensions read from Dir.
	// Default: .srt, .sub, .txt
	Extensions []string `koanf:"extensions" validate:"min=1"`

	// DetectSample is how many leading words of a block feed language detection.
	// Default: 500
	DetectSample int `koanf:"detect_sample" validate:"min=1"`

	// ExtraStopwordsVF and ExtraStopwordsVO extend the cleaning stopword lists.
	ExtraStopwordsVF []string `koanf:"extra_stopwords_vf"`
	ExtraStopwordsVO []string `koanf:"extra_stopwords_vo"`
}

// IndexConfig controls the vector space build and artifact location.
type IndexConfig struct {
	// ArtifactDir holds index.json, keywords.json and the build lock.
	ArtifactDir string `koanf:"artifact_dir" validate:"required"`

	// MaxFeatures bounds the vocabulary to the most frequent terms.
	// Default: 50000
	MaxFeatures int `koanf:"max_features" validate:"min=1"`

	// MinDF is the minimum number of documents a term must appear in.
	// Default: 1
	MinDF int `koanf:"min_df" validate:"min=1"`

	// MaxDF is the maximum fraction of documents a term may appear in.
	// Default: 1.0
	MaxDF float64 `koanf:"max_df" validate:"gt=0,lte=1"`

	// ReloadInterval is how often the server checks for a newer artifact.
	// Default: 1m
	ReloadInterval time.Duration `koanf:"reload_interval" validate:"gt=0"`

	// RebuildEnabled exposes POST /api/v1/index/rebuild on the server.
	// Default: true
	RebuildEnabled bool `koanf:"rebuild_enabled"`

	// RebuildTimeout bounds one in-process rebuild.
	// Default: 30m
	RebuildTimeout time.Duration `koanf:"rebuild_timeout" validate:"gt=0"`
}

// KeywordsConfig controls per-item keyword extraction.
type KeywordsConfig struct {
	// PerItem is the number of keywords kept per item.
	// Default: 200
	PerItem int `koanf:"per_item" validate:"min=1"`

	// MaxCandidates caps how many nonzero terms of a row are examined.
	// Default: 5000
	MaxCandidates int `koanf:"max_candidates" validate:"min=1"`

	// MinOccurrences discards terms seen fewer times in the item text.
	// Default: 2
	MinOccurrences int `koanf:"min_occurrences" validate:"min=1"`
}

// SearchConfig controls query scoring and result sizes.
type SearchConfig struct {
	DefaultLimit int `koanf:"default_limit" validate:"min=1"`
	MaxLimit     int `koanf:"max_limit" validate:"min=1"`

	// ExactBoost multiplies the score of keywords found inside the query.
	// Default: 0.5
	ExactBoost float64 `koanf:"exact_boost" validate:"gte=0"`

	// PartialBoost multiplies the score of keywords containing a query token.
	// Default: 0.2
	PartialBoost float64 `koanf:"partial_boost" validate:"gte=0"`
}

// RecommendConfig controls the three recommendation strategies.
type RecommendConfig struct {
	DefaultLimit int `koanf:"default_limit" validate:"min=1"`
	MaxLimit     int `koanf:"max_limit" validate:"min=1"`

	// MinCommonRatings is the co-rated item count required for two users to be similar.
	// Default: 2
	MinCommonRatings int `koanf:"min_common_ratings" validate:"min=1"`

	// UserWeight and PopularityWeight blend the hybrid score.
	// Default: 0.7 and 0.3
	UserWeight       float64 `koanf:"user_weight" validate:"gte=0"`
	PopularityWeight float64 `koanf:"popularity_weight" validate:"gte=0"`

	// UnratedPolicy scores items nobody rated: zero or keyword_proxy.
	// Default: zero
	UnratedPolicy string `koanf:"unrated_policy" validate:"oneof=zero keyword_proxy"`

	// KeywordProxyFactor multiplies the keyword count under keyword_proxy.
	// Default: 0.01
	KeywordProxyFactor float64 `koanf:"keyword_proxy_factor" validate:"gte=0"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}
