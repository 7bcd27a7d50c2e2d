// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package corpus

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"

	"github.com/tomtom215/serielens/internal/textproc"
)

// DefaultExtensions are the subtitle file types read when none are configured.
var DefaultExtensions = []string{".srt", ".sub", ".txt"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader reads a subtitle tree laid out as <root>/<series title>/**/<file>.
type Loader struct {
	root       string
	extensions map[string]bool
	logger     zerolog.Logger
}

// NewLoader creates a loader over root. Extensions are matched case-insensitively.
func NewLoader(root string, extensions []string, logger zerolog.Logger) *Loader {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = true
	}
	return &Loader{
		root:       root,
		extensions: exts,
		logger:     logger.With().Str("component", "corpus").Logger(),
	}
}

// Load returns one block per subtitle file, in sorted path order.
// The series title is the name of the top-level directory holding the file.
func (l *Loader) Load(ctx context.Context) ([]textproc.RawBlock, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("read corpus root %s: %w", l.root, err)
	}

	var titles []string
	for _, e := range entries {
		if e.IsDir() && !hidden(e.Name()) {
			titles = append(titles, e.Name())
		}
	}
	sort.Strings(titles)

	var blocks []textproc.RawBlock
	for _, title := range titles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		series, err := l.loadSeries(ctx, title)
		if err != nil {
			return nil, err
		}
		if len(series) == 0 {
			l.logger.Debug().Str("title", title).Msg("No subtitle files in series directory")
			continue
		}
		blocks = append(blocks, series...)
	}

	l.logger.Info().
		Str("root", l.root).
		Int("series", len(titles)).
		Int("files", len(blocks)).
		Msg("Corpus loaded")
	return blocks, nil
}

func (l *Loader) loadSeries(ctx context.Context, title string) ([]textproc.RawBlock, error) {
	var blocks []textproc.RawBlock
	dir := filepath.Join(l.root, title)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && hidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !l.extensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read subtitle %s: %w", path, err)
		}
		text, err := Decode(raw)
		if err != nil {
			l.logger.Warn().Err(err).Str("path", path).Msg("Skipping undecodable subtitle file")
			return nil
		}
		blocks = append(blocks, textproc.RawBlock{Title: title, Path: path, Text: text})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk series %s: %w", title, err)
	}
	return blocks, nil
}

// Decode returns raw as a string. Valid UTF-8 (with or without BOM) is kept
// as is; anything else is read as Windows-1252, the usual encoding of older
// French and English subtitle files.
func Decode(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode windows-1252: %w", err)
	}
	return string(out), nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
