// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package index

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/serielens/internal/models"
)

// Artifact file names inside the artifact directory.
const (
	IndexFile    = "index.json"
	KeywordsFile = "keywords.json"
	ManifestFile = "manifest.json"
	LockFile     = "build.lock"
)

// formatVersion is bumped whenever the on-disk layout changes.
const formatVersion = 2

// ErrBuildMismatch is returned by Load when the artifact files belong to
// different builds, as happens while a build is still renaming them into
// place. A later Load sees a consistent set again.
var ErrBuildMismatch = errors.New("artifacts belong to different builds")

// Manifest summarizes the artifacts of one build. It is written last, so
// a readable manifest means index.json and keywords.json are complete.
type Manifest struct {
	Version    int       `json:"version"`
	BuildID    string    `json:"build_id"`
	BuiltAt    time.Time `json:"built_at"`
	Documents  int       `json:"documents"`
	Vocabulary int       `json:"vocabulary"`
}

type itemRecord struct {
	ID       string `json:"id"`
	Title    string `json:"title,omitempty"`
	Language string `json:"language"`
}

// keywordsRecord is the on-disk form of a KeywordSet.
type keywordsRecord struct {
	BuildID string     `json:"build_id"`
	Items   KeywordSet `json:"items"`
}

// indexRecord is the on-disk form of a SearchIndex. The vocabulary is a
// lexically sorted list; a term's position is its column.
type indexRecord struct {
	Version    int          `json:"version"`
	BuildID    string       `json:"build_id"`
	BuiltAt    time.Time    `json:"built_at"`
	Params     Params       `json:"params"`
	Vocabulary []string     `json:"vocabulary"`
	IDF        []float64    `json:"idf"`
	Items      []itemRecord `json:"items"`
	Matrix     []Vector     `json:"matrix"`
}

// ArtifactStore reads and writes build artifacts in one directory.
type ArtifactStore struct {
	dir    string
	logger zerolog.Logger
}

// NewArtifactStore creates a store rooted at dir.
func NewArtifactStore(dir string, logger zerolog.Logger) *ArtifactStore {
	return &ArtifactStore{
		dir:    dir,
		logger: logger.With().Str("component", "artifacts").Logger(),
	}
}

// Dir returns the artifact directory.
func (a *ArtifactStore) Dir() string { return a.dir }

// Lock takes the cross-process build lock. A second holder gets
// models.ErrBuildInProgress until the returned release func runs.
// A lock left behind by a crashed build must be removed by hand.
func (a *ArtifactStore) Lock() (release func() error, err error) {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	path := filepath.Join(a.dir, LockFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("%w: %s exists", models.ErrBuildInProgress, path)
		}
		return nil, fmt.Errorf("create build lock: %w", err)
	}
	_, werr := f.WriteString(strconv.Itoa(os.Getpid()) + " " + time.Now().UTC().Format(time.RFC3339) + "\n")
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write build lock: %w", werr)
	}

	return func() error {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("release build lock: %w", err)
		}
		return nil
	}, nil
}

// Save writes keywords, index and manifest, each through a temp file
// renamed over the previous version.
func (a *ArtifactStore) Save(snap *Snapshot) error {
	idx := snap.Index
	rec := indexRecord{
		Version:    formatVersion,
		BuildID:    idx.buildID,
		BuiltAt:    idx.builtAt,
		Params:     idx.params,
		Vocabulary: idx.vocabulary,
		IDF:        idx.idf,
		Items:      make([]itemRecord, len(idx.items)),
		Matrix:     idx.rows,
	}
	for i, it := range idx.items {
		rec.Items[i] = itemRecord(it)
	}
	keywords := snap.Keywords
	if keywords == nil {
		keywords = KeywordSet{}
	}

	if err := a.writeAtomic(KeywordsFile, keywordsRecord{BuildID: idx.buildID, Items: keywords}); err != nil {
		return err
	}
	if err := a.writeAtomic(IndexFile, rec); err != nil {
		return err
	}
	manifest := Manifest{
		Version:    formatVersion,
		BuildID:    idx.buildID,
		BuiltAt:    idx.builtAt,
		Documents:  idx.Len(),
		Vocabulary: idx.VocabularySize(),
	}
	if err := a.writeAtomic(ManifestFile, manifest); err != nil {
		return err
	}

	a.logger.Info().
		Str("dir", a.dir).
		Str("build_id", manifest.BuildID).
		Int("documents", manifest.Documents).
		Msg("Artifacts saved")
	return nil
}

func (a *ArtifactStore) writeAtomic(name string, v interface{}) error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(a.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, filepath.Join(a.dir, name)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("install %s: %w", name, err)
	}
	return nil
}

// Manifest reads the manifest of the last completed build. It returns a
// *models.DataUnavailableError when no build has completed yet.
func (a *ArtifactStore) Manifest() (Manifest, error) {
	var m Manifest
	if err := a.readJSON(ManifestFile, &m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Load reads the last completed build. It returns a
// *models.DataUnavailableError when no build has completed yet, and an
// error wrapping ErrBuildMismatch when the manifest, index and keywords
// do not name the same build.
func (a *ArtifactStore) Load() (*Snapshot, error) {
	manifest, err := a.Manifest()
	if err != nil {
		return nil, err
	}
	var rec indexRecord
	if err := a.readJSON(IndexFile, &rec); err != nil {
		return nil, err
	}
	if rec.Version != formatVersion {
		return nil, fmt.Errorf("%s: unsupported format version %d", IndexFile, rec.Version)
	}
	var kw keywordsRecord
	if err := a.readJSON(KeywordsFile, &kw); err != nil {
		return nil, err
	}
	if rec.BuildID != manifest.BuildID || kw.BuildID != manifest.BuildID {
		return nil, fmt.Errorf("%w: manifest %q, index %q, keywords %q",
			ErrBuildMismatch, manifest.BuildID, rec.BuildID, kw.BuildID)
	}
	keywords := kw.Items
	if keywords == nil {
		keywords = KeywordSet{}
	}

	items := make([]models.Item, len(rec.Items))
	for i, it := range rec.Items {
		items[i] = models.Item(it)
	}
	idx, err := newSearchIndex(rec.BuildID, rec.BuiltAt, rec.Params, rec.Vocabulary, rec.IDF, items, rec.Matrix)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", IndexFile, err)
	}
	for id := range keywords {
		if _, ok := idx.Position(id); !ok {
			return nil, fmt.Errorf("%s: keywords for unknown item %q", KeywordsFile, id)
		}
	}

	a.logger.Debug().
		Str("build_id", idx.BuildID()).
		Int("documents", idx.Len()).
		Int("vocabulary", idx.VocabularySize()).
		Msg("Artifacts loaded")
	return &Snapshot{Index: idx, Keywords: keywords}, nil
}

func (a *ArtifactStore) readJSON(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(a.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &models.DataUnavailableError{Resource: "index"}
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
