// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package api

import (
	"time"

	"github.com/tomtom215/serielens/internal/index"
	"github.com/tomtom215/serielens/internal/ratings"
	"github.com/tomtom215/serielens/internal/recommend"
	"github.com/tomtom215/serielens/internal/search"
)

// HandlerConfig holds request defaults that are not owned by a service.
type HandlerConfig struct {
	// SearchDefaultLimit applies when /search has no limit parameter.
	SearchDefaultLimit int

	// KeywordsDefaultTop applies when /keywords has no top parameter.
	// 0 returns every stored keyword.
	KeywordsDefaultTop int

	// RequestTimeout bounds recommendation and search work per request.
	RequestTimeout time.Duration
}

// DefaultHandlerConfig returns the standard request defaults.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		SearchDefaultLimit: 10,
		KeywordsDefaultTop: 0,
		RequestTimeout:     10 * time.Second,
	}
}

// Rebuilder starts an in-process index rebuild. StartRebuild returns
// models.ErrBuildInProgress when a build is already running.
type Rebuilder interface {
	StartRebuild() error
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: health and readiness
//   - handlers_search.go: search, catalog and keywords
//   - handlers_ratings.go: users and ratings
//   - handlers_recommend.go: recommendations
//   - handlers_index.go: index rebuilds
type Handler struct {
	holder    *index.Holder
	rebuilder Rebuilder
	search    *search.Engine
	ratings   *ratings.Service
	recommend *recommend.Engine
	config    HandlerConfig
	startTime time.Time
}

// NewHandler creates a new API handler.
//
//	handler := api.NewHandler(holder, searchEngine, ratingSvc, recEngine, api.DefaultHandlerConfig())
//	router := api.NewRouter(handler, api.NewChiMiddleware(nil))
//	http.ListenAndServe(":8080", router.SetupChi())
func NewHandler(holder *index.Holder, searchEngine *search.Engine, ratingSvc *ratings.Service, recEngine *recommend.Engine, cfg HandlerConfig) *Handler {
	def := DefaultHandlerConfig()
	if cfg.SearchDefaultLimit <= 0 {
		cfg.SearchDefaultLimit = def.SearchDefaultLimit
	}
	if cfg.KeywordsDefaultTop < 0 {
		cfg.KeywordsDefaultTop = def.KeywordsDefaultTop
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	return &Handler{
		holder:    holder,
		search:    searchEngine,
		ratings:   ratingSvc,
		recommend: recEngine,
		config:    cfg,
		startTime: time.Now(),
	}
}

// SetRebuilder enables POST /api/v1/index/rebuild. Without a rebuilder the
// route is not registered.
func (h *Handler) SetRebuilder(r Rebuilder) {
	h.rebuilder = r
}
