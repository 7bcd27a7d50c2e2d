// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/serielens/internal/config"
	"github.com/tomtom215/serielens/internal/corpus"
	"github.com/tomtom215/serielens/internal/index"
	"github.com/tomtom215/serielens/internal/keywords"
	"github.com/tomtom215/serielens/internal/metrics"
	"github.com/tomtom215/serielens/internal/models"
	"github.com/tomtom215/serielens/internal/textproc"
)

// Options wires the stages of a build.
type Options struct {
	CorpusDir   string
	Extensions  []string
	SampleWords int
	ExtraVF     []string
	ExtraVO     []string
	Params      index.Params
	Keywords    keywords.Config

	// Detector overrides language detection. Nil uses whatlanggo.
	Detector textproc.Detector
}

// OptionsFromConfig maps the application config onto build options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		CorpusDir:   cfg.Corpus.Dir,
		Extensions:  cfg.Corpus.Extensions,
		SampleWords: cfg.Corpus.DetectSample,
		ExtraVF:     cfg.Corpus.ExtraStopwordsVF,
		ExtraVO:     cfg.Corpus.ExtraStopwordsVO,
		Params: index.Params{
			MaxFeatures: cfg.Index.MaxFeatures,
			MinDF:       cfg.Index.MinDF,
			MaxDF:       cfg.Index.MaxDF,
		},
		Keywords: keywords.Config{
			PerItem:        cfg.Keywords.PerItem,
			MaxCandidates:  cfg.Keywords.MaxCandidates,
			MinOccurrences: cfg.Keywords.MinOccurrences,
		},
	}
}

// Result summarizes a finished build.
type Result struct {
	BuildID    string
	Documents  int
	Vocabulary int
	Keywords   int
	Duration   time.Duration
	Snapshot   *index.Snapshot
}

// Pipeline runs builds into one artifact directory.
type Pipeline struct {
	loader    *corpus.Loader
	pre       *textproc.Preprocessor
	builder   *index.Builder
	extractor *keywords.Extractor
	artifacts *index.ArtifactStore
	holder    *index.Holder
	catalog   CatalogSyncer
	logger    zerolog.Logger
}

// CatalogSyncer receives the item list of a new build before it is swapped
// into the holder.
type CatalogSyncer interface {
	SyncCatalog(ctx context.Context, items []models.Item) error
}

// New creates a pipeline. holder may be nil when the build runs outside
// the server; otherwise the new snapshot is swapped into it.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(opts Options, artifacts *index.ArtifactStore, holder *index.Holder, logger zerolog.Logger) *Pipeline {
	cleaner := textproc.NewCleaner(opts.ExtraVF, opts.ExtraVO)
	return &Pipeline{
		loader:    corpus.NewLoader(opts.CorpusDir, opts.Extensions, logger),
		pre:       textproc.NewPreprocessor(cleaner, opts.Detector, opts.SampleWords, logger),
		builder:   index.NewBuilder(opts.Params, logger),
		extractor: keywords.NewExtractor(opts.Keywords, logger),
		artifacts: artifacts,
		holder:    holder,
		logger:    logger.With().Str("component", "pipeline").Logger(),
	}
}

// WithCatalog makes builds sync the catalog before swapping the holder.
// A failed sync fails the build; the saved artifacts are then picked up
// by the next reload.
func (p *Pipeline) WithCatalog(c CatalogSyncer) *Pipeline {
	p.catalog = c
	return p
}

// Run loads the corpus directory and builds from it.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	end, err := p.reserve()
	if err != nil {
		return nil, err
	}
	defer end()
	return p.build(ctx)
}

// Start reserves the holder and builds from the corpus directory in the
// background. It returns models.ErrBuildInProgress at once when another
// in-process build is running. done, when non-nil, gets the outcome.
func (p *Pipeline) Start(ctx context.Context, done func(*Result, error)) error {
	end, err := p.reserve()
	if err != nil {
		return err
	}
	go func() {
		defer end()
		res, err := p.build(ctx)
		if done != nil {
			done(res, err)
		}
	}()
	return nil
}

func (p *Pipeline) reserve() (end func(), err error) {
	if p.holder == nil {
		return func() {}, nil
	}
	return p.holder.BeginBuild()
}

func (p *Pipeline) build(ctx context.Context) (res *Result, err error) {
	release, err := p.artifacts.Lock()
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := release(); rerr != nil {
			p.logger.Warn().Err(rerr).Msg("Failed to release build lock")
		}
	}()

	start := time.Now()
	p.logger.Info().Str("artifact_dir", p.artifacts.Dir()).Msg("Starting index build")
	defer func() {
		if err != nil {
			metrics.RecordIndexBuild(time.Since(start), 0, 0, time.Time{}, err)
			p.logger.Error().Err(err).Msg("Index build failed")
		}
	}()

	blocks, err := p.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	docs, err := p.pre.Process(blocks)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	idx, err := p.builder.Build(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	kws, err := p.extractor.Extract(ctx, idx, docs)
	if err != nil {
		return nil, fmt.Errorf("extract keywords: %w", err)
	}

	snap := &index.Snapshot{Index: idx, Keywords: kws}
	if err := p.artifacts.Save(snap); err != nil {
		return nil, fmt.Errorf("save artifacts: %w", err)
	}
	if p.holder != nil {
		if p.catalog != nil {
			if err := p.catalog.SyncCatalog(ctx, idx.Items()); err != nil {
				return nil, fmt.Errorf("sync catalog: %w", err)
			}
		}
		p.holder.Swap(snap)
		metrics.SetActiveIndex(idx.Len(), idx.VocabularySize(), idx.BuiltAt())
	}

	res = &Result{
		BuildID:    idx.BuildID(),
		Documents:  idx.Len(),
		Vocabulary: idx.VocabularySize(),
		Duration:   time.Since(start),
		Snapshot:   snap,
	}
	for _, list := range kws {
		res.Keywords += len(list)
	}
	metrics.RecordIndexBuild(res.Duration, res.Documents, res.Vocabulary, idx.BuiltAt(), nil)

	p.logger.Info().
		Str("build_id", res.BuildID).
		Int("blocks", len(blocks)).
		Int("documents", res.Documents).
		Int("vocabulary", res.Vocabulary).
		Int("keywords", res.Keywords).
		Dur("duration", res.Duration).
		Msg("Index build complete")
	return res, nil
}
