// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package keywords

import (
	"github.com/tomtom215/serielens/internal/models"
	"github.com/tomtom215/serielens/internal/textproc"
)

// Keyword stopwords are wider than the cleaning lists: they also drop
// generic verbs, fillers and subtitle chatter that survive cleaning but
// make poor keywords.
var frenchKeywordStopwords = []string{
	"le", "la", "les", "un", "une", "des", "de", "du", "au", "aux", "et", "ou", "mais", "donc", "car",
	"ni", "ne", "pas", "plus", "moins", "tres", "trop", "bien", "mal", "tout", "tous", "toute", "toutes",
	"je", "tu", "il", "elle", "nous", "vous", "ils", "elles", "me", "te", "se", "mon", "ton", "son",
	"ma", "ta", "sa", "mes", "tes", "ses", "notre", "votre", "leur", "ce", "cet", "cette", "ces",
	"qui", "que", "quoi", "dont", "quand", "comment", "pourquoi", "quel", "quelle", "quels", "quelles",
	"suis", "es", "est", "sommes", "etes", "sont", "ai", "as", "avons", "avez", "ont",
	"ete", "etais", "etait", "etions", "etiez", "etaient", "avoir", "etre", "fait", "faire",
	"dit", "dire", "va", "vas", "vais", "allons", "allez", "vont", "aller", "peux", "peut", "pouvons",
	"pouvez", "peuvent", "pouvoir", "veux", "veut", "voulons", "voulez", "veulent", "vouloir",
	"dois", "doit", "devons", "devez", "doivent", "devoir", "sais", "sait", "savons", "savez", "savent",
	"pour", "dans", "sur", "avec", "sans", "sous", "par", "chez", "vers", "avant", "apres",
	"si", "comme", "aussi", "alors", "encore", "deja", "toujours", "jamais", "ici", "voici", "voila",
	"oui", "non", "rien", "quelque", "quelques", "chaque", "autre", "autres", "meme", "memes",
	"tait", "tre", "chose", "choses", "peut etre",
}

var englishKeywordStopwords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by", "from",
	"up", "about", "into", "through", "during", "before", "after", "above", "below", "between", "under",
	"is", "am", "are", "was", "were", "be", "been", "being", "have", "has", "had", "having", "do", "does",
	"did", "doing", "would", "should", "could", "might", "must", "can", "will", "shall",
	"i", "you", "he", "she", "it", "we", "they", "me", "him", "her", "us", "them", "my", "your", "his",
	"its", "our", "their", "this", "that", "these", "those", "what", "which", "who", "whom", "whose",
	"when", "where", "why", "how", "all", "each", "every", "both", "few", "more", "most", "other", "some",
	"such", "no", "nor", "not", "only", "own", "same", "so", "than", "too", "very", "just", "now",
	"get", "got", "goes", "going", "gonna", "gotta", "know", "like", "yeah", "well", "hey", "come",
	"want", "wanna", "need", "think", "okay", "right", "good", "look", "see", "tell", "make", "take",
	"let", "one", "two", "man", "men", "woman", "women", "time", "times", "sorry", "help", "people",
	"thing", "things", "guy", "guys", "yes", "maybe", "here", "there", "back", "out", "down", "off",
}

// Stopwords returns the keyword stopwords of a language variant. Items
// with an unknown variant are filtered with both lists.
func Stopwords(language string) textproc.StopwordSet {
	switch language {
	case models.LanguageVF:
		return textproc.NewStopwordSet(frenchKeywordStopwords)
	case models.LanguageVO:
		return textproc.NewStopwordSet(englishKeywordStopwords)
	default:
		return textproc.NewStopwordSet(frenchKeywordStopwords, englishKeywordStopwords)
	}
}
