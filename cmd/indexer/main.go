// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

// Command indexer builds the search index and keyword artifacts from the
// subtitle corpus, then syncs the item catalog into the configured store.
//
//	indexer                              # build into index.artifact_dir
//	indexer -import-ratings legacy.json  # build, then import legacy ratings
//	indexer -skip-build -import-ratings legacy.json
//
// A build holds build.lock in the artifact directory. A second indexer
// started meanwhile fails at once; a lock left by a crash must be removed
// by hand. A running server picks the new build up on its next reload.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/tomtom215/serielens/internal/config"
	"github.com/tomtom215/serielens/internal/index"
	"github.com/tomtom215/serielens/internal/logging"
	"github.com/tomtom215/serielens/internal/models"
	"github.com/tomtom215/serielens/internal/pipeline"
	"github.com/tomtom215/serielens/internal/ratings"
	"github.com/tomtom215/serielens/internal/store"
)

type options struct {
	importRatings string
	skipBuild     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.importRatings, "import-ratings", "", "Path to a legacy {user: {item: rating}} JSON file to import after the build")
	flag.BoolVar(&opts.skipBuild, "skip-build", false, "Reuse the last completed build instead of rebuilding (requires -import-ratings)")
	flag.Parse()

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, opts, logging.Logger())
	stop()
	if err != nil {
		logging.Error().Err(err).Msg("Indexer failed")
		os.Exit(1)
	}
}

//nolint:gocritic // zerolog.Logger is passed by value
func run(ctx context.Context, cfg *config.Config, opts options, logger zerolog.Logger) (err error) {
	if opts.skipBuild && opts.importRatings == "" {
		return errors.New("-skip-build only makes sense with -import-ratings")
	}

	st, err := store.Open(store.ConfigFrom(cfg.Storage), logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close store: %w", cerr)
		}
	}()
	if cfg.Storage.Backend == store.BackendMemory && opts.importRatings != "" {
		logger.Warn().Msg("Importing into memory storage; the ratings are dropped when the indexer exits")
	}

	artifacts := index.NewArtifactStore(cfg.Index.ArtifactDir, logger)
	snap, err := buildOrLoad(ctx, cfg, opts, artifacts, logger)
	if err != nil {
		return err
	}

	svc := ratings.NewService(st, logger)
	if err := svc.SyncCatalog(ctx, snap.Index.Items()); err != nil {
		return fmt.Errorf("sync catalog: %w", err)
	}
	if opts.importRatings == "" {
		return nil
	}
	return importRatings(ctx, svc, opts.importRatings)
}

//nolint:gocritic // zerolog.Logger is passed by value
func buildOrLoad(ctx context.Context, cfg *config.Config, opts options, artifacts *index.ArtifactStore, logger zerolog.Logger) (*index.Snapshot, error) {
	if opts.skipBuild {
		snap, err := artifacts.Load()
		if models.IsDataUnavailable(err) {
			return nil, fmt.Errorf("no completed build in %s; run without -skip-build first", artifacts.Dir())
		}
		return snap, err
	}

	res, err := pipeline.New(pipeline.OptionsFromConfig(cfg), artifacts, nil, logger).Run(ctx)
	if err != nil {
		if errors.Is(err, models.ErrBuildInProgress) {
			return nil, fmt.Errorf("%w; remove %s if no build is running", err, index.LockFile)
		}
		return nil, fmt.Errorf("build: %w", err)
	}
	logger.Info().
		Str("build_id", res.BuildID).
		Int("documents", res.Documents).
		Int("vocabulary", res.Vocabulary).
		Int("keywords", res.Keywords).
		Dur("duration", res.Duration).
		Msg("Index built")
	return res.Snapshot, nil
}

func importRatings(ctx context.Context, svc *ratings.Service, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open legacy ratings: %w", err)
	}
	defer f.Close()

	stats, err := svc.Import(ctx, f)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	if stats.Imported == 0 && stats.Processed > 0 {
		logging.Warn().Int("processed", stats.Processed).Msg("No legacy rating matched the catalog")
	}
	return nil
}
