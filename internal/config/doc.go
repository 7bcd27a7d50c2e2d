// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

// Package config loads Serielens configuration with Koanf v2.
//
// Sources are layered, later ones winning:
//
//  1. Built-in defaults (defaultConfig)
//  2. An optional YAML file: $CONFIG_PATH, else the first of DefaultConfigPaths that exists
//  3. Environment variables listed in envMappings (e.g. INDEX_DIR, RECOMMEND_USER_WEIGHT)
//
// The result is checked by Config.Validate before it is returned.
package config
