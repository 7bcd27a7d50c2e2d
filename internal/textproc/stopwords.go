// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package textproc

import "github.com/tomtom215/serielens/internal/models"

// frenchStopwords is the standard NLTK French list. Entries are folded to
// their accent-free form when the sets are built.
var frenchStopwords = []string{
	"au", "aux", "avec", "ce", "ces", "dans", "de", "des", "du", "elle", "en", "et",
	"eux", "il", "ils", "je", "la", "le", "les", "leur", "lui", "ma", "mais", "me",
	"même", "mes", "moi", "mon", "ne", "nos", "notre", "nous", "on", "ou", "par",
	"pas", "pour", "qu", "que", "qui", "sa", "se", "ses", "son", "sur", "ta", "te",
	"tes", "toi", "ton", "tu", "un", "une", "vos", "votre", "vous", "c", "d", "j",
	"l", "à", "m", "n", "s", "t", "y", "été", "étée", "étées", "étés", "étant",
	"étante", "étants", "étantes", "suis", "es", "est", "sommes", "êtes", "sont",
	"serai", "seras", "sera", "serons", "serez", "seront", "serais", "serait",
	"serions", "seriez", "seraient", "étais", "était", "étions", "étiez", "étaient",
	"fus", "fut", "fûmes", "fûtes", "furent", "sois", "soit", "soyons", "soyez",
	"soient", "fusse", "fusses", "fût", "fussions", "fussiez", "fussent", "ayant",
	"ayante", "ayantes", "ayants", "eu", "eue", "eues", "eus", "ai", "as", "avons",
	"avez", "ont", "aurai", "auras", "aura", "aurons", "aurez", "auront", "aurais",
	"aurait", "aurions", "auriez", "auraient", "avais", "avait", "avions", "aviez",
	"avaient", "eut", "eûmes", "eûtes", "eurent", "aie", "aies", "ait", "ayons",
	"ayez", "aient", "eusse", "eusses", "eût", "eussions", "eussiez", "eussent",
}

// englishStopwords is the standard NLTK English list.
var englishStopwords = []string{
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you", "you're",
	"you've", "you'll", "you'd", "your", "yours", "yourself", "yourselves", "he",
	"him", "his", "himself", "she", "she's", "her", "hers", "herself", "it", "it's",
	"its", "itself", "they", "them", "their", "theirs", "themselves", "what", "which",
	"who", "whom", "this", "that", "that'll", "these", "those", "am", "is", "are",
	"was", "were", "be", "been", "being", "have", "has", "had", "having", "do",
	"does", "did", "doing", "a", "an", "the", "and", "but", "if", "or", "because",
	"as", "until", "while", "of", "at", "by", "for", "with", "about", "against",
	"between", "into", "through", "during", "before", "after", "above", "below",
	"to", "from", "up", "down", "in", "out", "on", "off", "over", "under", "again",
	"further", "then", "once", "here", "there", "when", "where", "why", "how", "all",
	"any", "both", "each", "few", "more", "most", "other", "some", "such", "no",
	"nor", "not", "only", "own", "same", "so", "than", "too", "very", "s", "t",
	"can", "will", "just", "don", "don't", "should", "should've", "now", "d", "ll",
	"m", "o", "re", "ve", "y", "ain", "aren", "aren't", "couldn", "couldn't",
	"didn", "didn't", "doesn", "doesn't", "hadn", "hadn't", "hasn", "hasn't",
	"haven", "haven't", "isn", "isn't", "ma", "mightn", "mightn't", "mustn",
	"mustn't", "needn", "needn't", "shan", "shan't", "shouldn", "shouldn't", "wasn",
	"wasn't", "weren", "weren't", "won", "won't", "wouldn", "wouldn't",
}

// StopwordSet is a set of folded stopwords.
type StopwordSet map[string]struct{}

// NewStopwordSet folds every word and merges the given lists.
func NewStopwordSet(lists ...[]string) StopwordSet {
	s := make(StopwordSet)
	for _, list := range lists {
		for _, w := range list {
			if w = Fold(w); w != "" {
				s[w] = struct{}{}
			}
		}
	}
	return s
}

// Contains reports whether w is a stopword. w must already be folded.
func (s StopwordSet) Contains(w string) bool {
	_, ok := s[w]
	return ok
}

// Union returns a new set holding the words of every given set.
func Union(sets ...StopwordSet) StopwordSet {
	out := make(StopwordSet)
	for _, s := range sets {
		for w := range s {
			out[w] = struct{}{}
		}
	}
	return out
}

// DefaultStopwords returns the cleaning stopwords for a language variant.
// Unknown variants get the union of both lists.
func DefaultStopwords(language string) StopwordSet {
	switch language {
	case models.LanguageVF:
		return NewStopwordSet(frenchStopwords)
	case models.LanguageVO:
		return NewStopwordSet(englishStopwords)
	default:
		return NewStopwordSet(frenchStopwords, englishStopwords)
	}
}
