// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package textproc

import (
	"reflect"
	"strings"
	"testing"

	"github.com/tomtom215/serielens/internal/models"
)

func TestFold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Été", "ete"},
		{"Ça va", "ca va"},
		{"Noël à l'Île", "noel a l'ile"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripMarkup(t *testing.T) {
	t.Parallel()

	in := "1\n00:00:01,000 --> 00:00:02,500\n<i>Hello</i> {\\an8}there"
	got := StripMarkup(in)
	for _, bad := range []string{"-->", "<i>", "</i>", "\\an8"} {
		if strings.Contains(got, bad) {
			t.Errorf("StripMarkup() = %q still contains %q", got, bad)
		}
	}
	if !strings.Contains(got, "Hello") || !strings.Contains(got, "there") {
		t.Errorf("StripMarkup() = %q lost dialogue text", got)
	}
}

func TestCleanerClean(t *testing.T) {
	t.Parallel()

	c := NewCleaner(nil, nil)
	tests := []struct {
		name     string
		text     string
		language string
		want     string
	}{
		{
			name:     "french dialogue",
			text:     "00:00:01,000 --> 00:00:02,000\n<i>L'avion s'est écrasé sur l'île!</i> 42 peut-être",
			language: models.LanguageVF,
			want:     "avion ecrase ile peut etre",
		},
		{
			name:     "english dialogue",
			text:     "Hello, the WORLD's 3rd crash-landing {\\an8}",
			language: models.LanguageVO,
			want:     "hello world crash landing",
		},
		{
			name:     "only short tokens and stopwords",
			text:     "I am on it, ok?",
			language: models.LanguageVO,
			want:     "",
		},
		{
			name:     "unknown language uses both lists",
			text:     "vous were sommes there island",
			language: "",
			want:     "island",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := c.Clean(tt.text, tt.language); got != tt.want {
				t.Errorf("Clean() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanerExtraStopwords(t *testing.T) {
	t.Parallel()

	c := NewCleaner([]string{"Voilà"}, []string{"yeah"})
	if got := c.Clean("voila avion", models.LanguageVF); got != "avion" {
		t.Errorf("Clean(vf) = %q, want %q", got, "avion")
	}
	if got := c.Clean("yeah plane", models.LanguageVO); got != "plane" {
		t.Errorf("Clean(vo) = %q, want %q", got, "plane")
	}
	if !c.Stopwords("").Contains("voila") || !c.Stopwords("").Contains("yeah") {
		t.Error("union stopwords should include extras of both variants")
	}
}

func TestCleanerNormalizeKeepsShortTokens(t *testing.T) {
	t.Parallel()

	got := NewCleaner(nil, nil).Normalize("Le crash-test, 2 fois")
	want := []string{"le", "crash", "test", "fois"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %v, want %v", got, want)
	}
}

func TestDefaultStopwordsFolded(t *testing.T) {
	t.Parallel()

	vf := DefaultStopwords(models.LanguageVF)
	for _, w := range []string{"ete", "etaient", "meme", "a"} {
		if !vf.Contains(w) {
			t.Errorf("french stopwords missing folded %q", w)
		}
	}
	if vf.Contains("été") {
		t.Error("french stopwords should not keep accented forms")
	}
	if !DefaultStopwords(models.LanguageVO).Contains("themselves") {
		t.Error("english stopwords missing \"themselves\"")
	}
	union := DefaultStopwords("")
	if !union.Contains("sommes") || !union.Contains("were") {
		t.Error("union should hold both languages")
	}
}
