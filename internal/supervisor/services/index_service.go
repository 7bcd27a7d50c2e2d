// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/serielens/internal/index"
	"github.com/tomtom215/serielens/internal/metrics"
	"github.com/tomtom215/serielens/internal/models"
)

// Reload outcomes, as recorded in serielens_index_loads_total.
const (
	ReloadSwapped   = "swapped"
	ReloadUnchanged = "unchanged"
	ReloadMissing   = "missing"
	ReloadError     = "error"
)

// DefaultReloadInterval is used when the configured interval is not positive.
const DefaultReloadInterval = time.Minute

// ArtifactSource reads completed builds. *index.ArtifactStore satisfies it.
type ArtifactSource interface {
	Manifest() (index.Manifest, error)
	Load() (*index.Snapshot, error)
}

// CatalogSyncer replaces the item catalog. *ratings.Service satisfies it.
type CatalogSyncer interface {
	SyncCatalog(ctx context.Context, items []models.Item) error
}

// IndexReloadService keeps the holder on the newest completed build.
type IndexReloadService struct {
	artifacts ArtifactSource
	holder    *index.Holder
	catalog   CatalogSyncer
	interval  time.Duration
	logger    zerolog.Logger
	name      string
}

// NewIndexReloadService creates the reloader.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewIndexReloadService(artifacts ArtifactSource, holder *index.Holder, catalog CatalogSyncer, interval time.Duration, logger zerolog.Logger) *IndexReloadService {
	if interval <= 0 {
		interval = DefaultReloadInterval
	}
	return &IndexReloadService{
		artifacts: artifacts,
		holder:    holder,
		catalog:   catalog,
		interval:  interval,
		logger:    logger.With().Str("service", "index-reload").Logger(),
		name:      "index-reload",
	}
}

// Serve implements suture.Service. Reload failures are logged and retried
// on the next tick; they never stop the loop.
func (s *IndexReloadService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("index reload service starting")
	s.reloadAndLog(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("index reload service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.reloadAndLog(ctx)
		}
	}
}

func (s *IndexReloadService) reloadAndLog(ctx context.Context) {
	outcome, err := s.Reload(ctx)
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Msg("index reload failed")
	case outcome == ReloadMissing && s.holder.Current() == nil:
		s.logger.Warn().Msg("no completed index build yet; search stays unavailable")
	}
}

// Reload checks the manifest once and swaps in the build it names when
// that build differs from the active one and is not older. The catalog
// is synced before the swap, so a failed sync leaves the old snapshot
// active and the next tick retries.
func (s *IndexReloadService) Reload(ctx context.Context) (outcome string, err error) {
	defer func() { metrics.RecordIndexLoad(outcome) }()

	m, err := s.artifacts.Manifest()
	if err != nil {
		if models.IsDataUnavailable(err) {
			return ReloadMissing, nil
		}
		return ReloadError, fmt.Errorf("read manifest: %w", err)
	}

	current := s.holder.Current()
	if current != nil && current.Index.BuildID() == m.BuildID {
		return ReloadUnchanged, nil
	}
	if current != nil && m.BuiltAt.Before(current.Index.BuiltAt()) {
		s.logger.Warn().
			Str("active_build", current.Index.BuildID()).
			Str("manifest_build", m.BuildID).
			Msg("manifest names an older build; keeping the active index")
		return ReloadUnchanged, nil
	}

	snap, err := s.artifacts.Load()
	if err != nil {
		if models.IsDataUnavailable(err) {
			return ReloadMissing, nil
		}
		return ReloadError, fmt.Errorf("load artifacts: %w", err)
	}
	idx := snap.Index

	if err := s.catalog.SyncCatalog(ctx, idx.Items()); err != nil {
		return ReloadError, fmt.Errorf("sync catalog: %w", err)
	}
	s.holder.Swap(snap)
	metrics.SetActiveIndex(idx.Len(), idx.VocabularySize(), idx.BuiltAt())

	s.logger.Info().
		Str("build_id", idx.BuildID()).
		Time("built_at", idx.BuiltAt()).
		Int("documents", idx.Len()).
		Int("vocabulary", idx.VocabularySize()).
		Msg("index swapped in")
	return ReloadSwapped, nil
}

// String implements fmt.Stringer.
func (s *IndexReloadService) String() string {
	return s.name
}
