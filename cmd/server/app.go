// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/serielens/internal/api"
	"github.com/tomtom215/serielens/internal/config"
	"github.com/tomtom215/serielens/internal/index"
	"github.com/tomtom215/serielens/internal/pipeline"
	"github.com/tomtom215/serielens/internal/ratings"
	"github.com/tomtom215/serielens/internal/recommend"
	"github.com/tomtom215/serielens/internal/search"
	"github.com/tomtom215/serielens/internal/store"
	"github.com/tomtom215/serielens/internal/supervisor"
	"github.com/tomtom215/serielens/internal/supervisor/services"
	"github.com/tomtom215/serielens/internal/textproc"
)

// app holds the wired server components. It owns nothing that needs
// closing; the store is closed by main.
type app struct {
	cfg       *config.Config
	artifacts *index.ArtifactStore
	holder    *index.Holder
	ratings   *ratings.Service
	search    *search.Engine
	recommend *recommend.Engine
	handler   http.Handler
	logger    zerolog.Logger
}

//nolint:gocritic // zerolog.Logger is passed by value
func newApp(cfg *config.Config, st store.Store, logger zerolog.Logger) (*app, error) {
	holder := index.NewHolder()
	ratingSvc := ratings.NewService(st, logger)

	recEngine, err := recommend.NewEngine(recommend.ConfigFrom(cfg.Recommend), ratingSvc, holder, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}

	cleaner := textproc.NewCleaner(cfg.Corpus.ExtraStopwordsVF, cfg.Corpus.ExtraStopwordsVO)
	searchEngine := search.NewEngine(holder, cleaner, search.ConfigFrom(cfg.Search), logger)

	handlerCfg := api.DefaultHandlerConfig()
	handlerCfg.SearchDefaultLimit = cfg.Search.DefaultLimit
	handlerCfg.RequestTimeout = cfg.Server.Timeout
	handler := api.NewHandler(holder, searchEngine, ratingSvc, recEngine, handlerCfg)

	artifacts := index.NewArtifactStore(cfg.Index.ArtifactDir, logger)
	if cfg.Index.RebuildEnabled {
		handler.SetRebuilder(&rebuilder{
			pipeline: pipeline.New(pipeline.OptionsFromConfig(cfg), artifacts, holder, logger).WithCatalog(ratingSvc),
			timeout:  cfg.Index.RebuildTimeout,
		})
	}
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(cfg.Security)))

	return &app{
		cfg:       cfg,
		artifacts: artifacts,
		holder:    holder,
		ratings:   ratingSvc,
		search:    searchEngine,
		recommend: recEngine,
		handler:   router.SetupChi(),
		logger:    logger,
	}, nil
}

func (a *app) httpServer() *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(a.cfg.Server.Host, strconv.Itoa(a.cfg.Server.Port)),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       a.cfg.Server.Timeout,
		WriteTimeout:      a.cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
}

func (a *app) reloadService() *services.IndexReloadService {
	return services.NewIndexReloadService(a.artifacts, a.holder, a.ratings, a.cfg.Index.ReloadInterval, a.logger)
}

// register adds the reload loop and the HTTP server to the tree.
func (a *app) register(tree *supervisor.SupervisorTree) *http.Server {
	server := a.httpServer()
	tree.AddDataService(a.reloadService())
	tree.AddAPIService(services.NewHTTPServerService(server, a.cfg.Server.ShutdownTimeout, a.logger))
	return server
}

// rebuilder runs in-process builds against the server's holder. A build
// outlives the request that started it and is bounded by timeout.
type rebuilder struct {
	pipeline *pipeline.Pipeline
	timeout  time.Duration
}

func (b *rebuilder) StartRebuild() error {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	err := b.pipeline.Start(ctx, func(*pipeline.Result, error) { cancel() })
	if err != nil {
		cancel()
	}
	return err
}
