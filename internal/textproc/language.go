// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package textproc

import (
	"strings"

	"github.com/RadhiFadlillah/whatlanggo"

	"github.com/tomtom215/serielens/internal/models"
)

// Detector guesses the language of a text sample.
type Detector interface {
	// Detect returns an ISO 639-1 code, or "" when it cannot decide.
	Detect(sample string) string
}

// WhatlangDetector detects languages with whatlanggo trigram profiles.
type WhatlangDetector struct{}

// Detect implements Detector.
func (WhatlangDetector) Detect(sample string) string {
	if strings.TrimSpace(sample) == "" {
		return ""
	}
	switch whatlanggo.Detect(sample).Lang {
	case whatlanggo.Fra:
		return "fr"
	case whatlanggo.Eng:
		return "en"
	default:
		return ""
	}
}

// minSampleChars is the sample size under which the whole text is used.
const minSampleChars = 50

// Sample returns the first words of text joined by single spaces, or the
// whole text when that sample is shorter than 50 characters.
func Sample(text string, words int) string {
	fields := strings.Fields(text)
	if len(fields) > words {
		fields = fields[:words]
	}
	sample := strings.Join(fields, " ")
	if len(sample) < minSampleChars {
		return text
	}
	return sample
}

// VariantFor maps a detected language code to an item variant. French is
// dubbed content; everything else, including unknown, is original version.
func VariantFor(code string) string {
	if code == "fr" {
		return models.LanguageVF
	}
	return models.LanguageVO
}
