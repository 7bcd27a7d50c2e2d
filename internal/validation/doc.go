// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is built once (it caches struct metadata) with
// the custom "langtag" rule for language variant filters, and reports field
// names by their json/query/koanf tag rather than the Go field name.
//
//	type searchParams struct {
//	    Query    string `query:"q" validate:"required"`
//	    Limit    int    `query:"limit" validate:"min=1,max=100"`
//	    Language string `query:"language" validate:"langtag"`
//	}
//
//	if verr := validation.ValidateStruct(&p); verr != nil {
//	    return verr.ToModelError()
//	}
package validation
