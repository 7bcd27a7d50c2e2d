// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/serielens/config.yaml",
	"/etc/serielens/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Storage: StorageConfig{
			Backend: "memory",
		},
		Corpus: CorpusConfig{
			Dir:          "data/subtitles",
			Extensions:   []string{".srt", ".sub", ".txt"},
			DetectSample: 500,
		},
		Index: IndexConfig{
			ArtifactDir:    "data/index",
			MaxFeatures:    50000,
			MinDF:          1,
			MaxDF:          1.0,
			ReloadInterval: time.Minute,
			RebuildEnabled: true,
			RebuildTimeout: 30 * time.Minute,
		},
		Keywords: KeywordsConfig{
			PerItem:        200,
			MaxCandidates:  5000,
			MinOccurrences: 2,
		},
		Search: SearchConfig{
			DefaultLimit: 10,
			MaxLimit:     100,
			ExactBoost:   0.5,
			PartialBoost: 0.2,
		},
		Recommend: RecommendConfig{
			DefaultLimit:       10,
			MaxLimit:           100,
			MinCommonRatings:   2,
			UserWeight:         0.7,
			PopularityWeight:   0.3,
			UnratedPolicy:      "zero",
			KeywordProxyFactor: 0.01,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
	}
}

// Defaults returns a copy of the built-in configuration.
func Defaults() *Config {
	return defaultConfig()
}

// LoadWithKoanf loads configuration from defaults, an optional YAML file and
// the environment, in that order of precedence (environment wins).
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when they arrive as strings.
var sliceConfigPaths = []string{
	"corpus.extensions",
	"corpus.extra_stopwords_vf",
	"corpus.extra_stopwords_vo",
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
// Unlisted variables are ignored so unrelated environment does not leak in.
var envMappings = map[string]string{
	"http_host":        "server.host",
	"http_port":        "server.port",
	"server_timeout":   "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"storage_backend": "storage.backend",
	"storage_path":    "storage.path",

	"corpus_dir":                "corpus.dir",
	"corpus_extensions":         "corpus.extensions",
	"corpus_detect_sample":      "corpus.detect_sample",
	"corpus_extra_stopwords_vf": "corpus.extra_stopwords_vf",
	"corpus_extra_stopwords_vo": "corpus.extra_stopwords_vo",

	"index_dir":             "index.artifact_dir",
	"index_max_features":    "index.max_features",
	"index_min_df":          "index.min_df",
	"index_max_df":          "index.max_df",
	"index_reload_interval": "index.reload_interval",
	"index_rebuild_enabled": "index.rebuild_enabled",
	"index_rebuild_timeout": "index.rebuild_timeout",

	"keywords_per_item":        "keywords.per_item",
	"keywords_max_candidates":  "keywords.max_candidates",
	"keywords_min_occurrences": "keywords.min_occurrences",

	"search_default_limit": "search.default_limit",
	"search_max_limit":     "search.max_limit",
	"search_exact_boost":   "search.exact_boost",
	"search_partial_boost": "search.partial_boost",

	"recommend_default_limit":        "recommend.default_limit",
	"recommend_max_limit":            "recommend.max_limit",
	"recommend_min_common_ratings":   "recommend.min_common_ratings",
	"recommend_user_weight":          "recommend.user_weight",
	"recommend_popularity_weight":    "recommend.popularity_weight",
	"recommend_unrated_policy":       "recommend.unrated_policy",
	"recommend_keyword_proxy_factor": "recommend.keyword_proxy_factor",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

// envTransformFunc maps an environment variable name to a koanf path.
//
//   - INDEX_DIR -> index.artifact_dir
//   - RECOMMEND_USER_WEIGHT -> recommend.user_weight
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
