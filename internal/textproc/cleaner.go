// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package textproc

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tomtom215/serielens/internal/models"
)

// MinTokenLength is the shortest token kept by Clean, in runes.
const MinTokenLength = 3

var (
	timestampPattern = regexp.MustCompile(`\d{2}:\d{2}:\d{2},\d{3}\s*-->\s*\d{2}:\d{2}:\d{2},\d{3}`)
	tagPattern       = regexp.MustCompile(`<[^>]+>`)
	overridePattern  = regexp.MustCompile(`\{[^}]*\}`)
)

// StripMarkup replaces SRT timestamps, HTML-like tags and SSA override
// blocks with a space.
func StripMarkup(text string) string {
	text = timestampPattern.ReplaceAllString(text, " ")
	text = tagPattern.ReplaceAllString(text, " ")
	return overridePattern.ReplaceAllString(text, " ")
}

// Fold lowercases s and removes combining marks after canonical
// decomposition, so "Été" becomes "ete".
func Fold(s string) string {
	s = strings.ToLower(s)
	// transform.Chain keeps state, so it is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Cleaner turns raw subtitle text into space separated tokens.
// It is safe for concurrent use.
type Cleaner struct {
	byLanguage map[string]StopwordSet
	union      StopwordSet
}

// NewCleaner builds a cleaner over the default French and English lists,
// extended by the given extra words.
func NewCleaner(extraVF, extraVO []string) *Cleaner {
	vf := NewStopwordSet(frenchStopwords, extraVF)
	vo := NewStopwordSet(englishStopwords, extraVO)
	return &Cleaner{
		byLanguage: map[string]StopwordSet{
			models.LanguageVF: vf,
			models.LanguageVO: vo,
		},
		union: Union(vf, vo),
	}
}

// Stopwords returns the set used for language. An empty or unknown
// language gets the union of both lists.
func (c *Cleaner) Stopwords(language string) StopwordSet {
	if s, ok := c.byLanguage[language]; ok {
		return s
	}
	return c.union
}

// Normalize applies every cleaning step except token filtering and
// returns the whitespace tokens.
func (c *Cleaner) Normalize(text string) []string {
	text = Fold(StripMarkup(text))
	text = strings.Map(func(r rune) rune {
		switch {
		case r == '-':
			return ' '
		case unicode.IsDigit(r):
			return ' '
		case r == '_', unicode.IsLetter(r), unicode.IsNumber(r), unicode.IsSpace(r):
			return r
		default:
			return ' '
		}
	}, text)
	return strings.Fields(text)
}

// Tokens cleans text and drops short tokens and stopwords of language.
func (c *Cleaner) Tokens(text, language string) []string {
	stop := c.Stopwords(language)
	raw := c.Normalize(text)
	tokens := raw[:0]
	for _, tok := range raw {
		if utf8.RuneCountInString(tok) < MinTokenLength || stop.Contains(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Clean returns the cleaned document text for language. The result may be
// empty when nothing survives filtering.
func (c *Cleaner) Clean(text, language string) string {
	return strings.Join(c.Tokens(text, language), " ")
}
