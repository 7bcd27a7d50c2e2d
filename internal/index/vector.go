// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package index

import (
	"math"
	"sort"
	"strings"
)

// Entry is one nonzero cell of a sparse row.
type Entry struct {
	Col    int     `json:"c"`
	Weight float64 `json:"w"`
}

// Vector is a sparse row, always sorted by Col for merge-join operations.
type Vector []Entry

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, e := range v {
		sum += e.Weight * e.Weight
	}
	return math.Sqrt(sum)
}

// Normalize scales v in place to unit length. A zero vector is left as is.
func (v Vector) Normalize() {
	n := v.Norm()
	if n == 0 {
		return
	}
	for i := range v {
		v[i].Weight /= n
	}
}

// Dot computes the dot product of two sorted sparse vectors using a
// merge-join. For unit vectors this is their cosine similarity.
func Dot(a, b Vector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Col == b[j].Col:
			dot += a[i].Weight * b[j].Weight
			i++
			j++
		case a[i].Col < b[j].Col:
			i++
		default:
			j++
		}
	}
	return dot
}

// newVector builds a sorted vector from column weights, skipping zeros.
func newVector(weights map[int]float64) Vector {
	if len(weights) == 0 {
		return nil
	}
	v := make(Vector, 0, len(weights))
	for col, w := range weights {
		if w != 0 {
			v = append(v, Entry{Col: col, Weight: w})
		}
	}
	sort.Slice(v, func(i, j int) bool { return v[i].Col < v[j].Col })
	return v
}

// Terms expands a token stream into its unigrams followed by its bigrams.
// Bigrams join adjacent tokens with one space.
func Terms(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	terms := make([]string, 0, 2*len(tokens)-1)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

// CountTerms returns the raw term frequencies of a cleaned text.
func CountTerms(text string) map[string]int {
	counts := make(map[string]int)
	for _, t := range Terms(strings.Fields(text)) {
		counts[t]++
	}
	return counts
}
