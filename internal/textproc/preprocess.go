// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package textproc

import (
	"sort"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/tomtom215/serielens/internal/models"
)

// DefaultSampleWords is the number of leading words used for detection.
const DefaultSampleWords = 500

// RawBlock is one uncleaned text block of a series, usually one subtitle file.
type RawBlock struct {
	// Title is the series title the block belongs to.
	Title string

	// Path is where the block was read from. Informational only.
	Path string

	// Language optionally pins the variant (vf or vo) and skips detection.
	Language string

	Text string
}

// Preprocessor groups raw blocks per (series, variant) and cleans them.
type Preprocessor struct {
	cleaner     *Cleaner
	detector    Detector
	sampleWords int
	logger      zerolog.Logger
}

// NewPreprocessor creates a preprocessor. A nil detector means every
// untagged block is detected with whatlanggo.
func NewPreprocessor(cleaner *Cleaner, detector Detector, sampleWords int, logger zerolog.Logger) *Preprocessor {
	if detector == nil {
		detector = WhatlangDetector{}
	}
	if sampleWords <= 0 {
		sampleWords = DefaultSampleWords
	}
	return &Preprocessor{
		cleaner:     cleaner,
		detector:    detector,
		sampleWords: sampleWords,
		logger:      logger.With().Str("component", "preprocess").Logger(),
	}
}

// Variant resolves the language variant of a block.
func (p *Preprocessor) Variant(b RawBlock) (string, error) {
	if tag := models.NormalizeLanguage(b.Language); tag != "" {
		if err := models.ValidateLanguage(tag); err != nil {
			return "", err
		}
		return tag, nil
	}
	return VariantFor(p.detector.Detect(Sample(b.Text, p.sampleWords))), nil
}

type group struct {
	title    string
	language string
	parts    []string
}

// Process turns raw blocks into cleaned documents sorted by item id.
// Blocks sharing an item id are joined with a newline in input order
// before cleaning. Items whose text is empty after cleaning are dropped.
func (p *Preprocessor) Process(blocks []RawBlock) ([]models.Document, error) {
	groups := make(map[string]*group)
	for _, b := range blocks {
		variant, err := p.Variant(b)
		if err != nil {
			return nil, err
		}
		id, err := ItemID(b.Title, variant)
		if err != nil {
			return nil, err
		}
		g, ok := groups[id]
		if !ok {
			g = &group{title: strings.TrimSpace(b.Title), language: variant}
			groups[id] = g
		}
		g.parts = append(g.parts, b.Text)
	}

	docs := make([]models.Document, 0, len(groups))
	for id, g := range groups {
		text := p.cleaner.Clean(strings.Join(g.parts, "\n"), g.language)
		if text == "" {
			p.logger.Warn().Str("item_id", id).Int("blocks", len(g.parts)).Msg("Dropping item with no text left after cleaning")
			continue
		}
		docs = append(docs, models.Document{
			ItemID:   id,
			Title:    g.title,
			Language: g.language,
			Text:     text,
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ItemID < docs[j].ItemID })

	p.logger.Info().Int("blocks", len(blocks)).Int("documents", len(docs)).Msg("Preprocessing complete")
	return docs, nil
}

// Slug folds a title into lowercase ASCII-friendly form with runs of
// anything other than letters and digits collapsed to one underscore.
func Slug(title string) string {
	var b strings.Builder
	pending := false
	for _, r := range Fold(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// ItemID builds "<slug>_<variant>".
func ItemID(title, variant string) (string, error) {
	slug := Slug(title)
	if slug == "" {
		return "", models.NewValidationError("title", "must contain a letter or digit", title)
	}
	return slug + "_" + variant, nil
}
