// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/serielens/internal/models"
	"github.com/tomtom215/serielens/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// queryParams reads typed query parameters, remembering the first
// malformed one. Callers check Err once after reading everything.
type queryParams struct {
	values map[string][]string
	err    error
}

func newQueryParams(r *http.Request) *queryParams {
	return &queryParams{values: r.URL.Query()}
}

func (q *queryParams) get(key string) string {
	if v := q.values[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

// String returns the trimmed value of key, or "".
func (q *queryParams) String(key string) string {
	return q.get(key)
}

// Language returns the normalized language filter.
func (q *queryParams) Language(key string) string {
	return models.NormalizeLanguage(q.get(key))
}

// Int returns key as an int, or def when absent.
func (q *queryParams) Int(key string, def int) int {
	raw := q.get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(key, "must be an integer", raw)
		return def
	}
	return n
}

// Float returns key as a float64, or def when absent.
func (q *queryParams) Float(key string, def float64) float64 {
	if p := q.FloatPtr(key); p != nil {
		return *p
	}
	return def
}

// FloatPtr returns key as a *float64, or nil when absent.
func (q *queryParams) FloatPtr(key string) *float64 {
	raw := q.get(key)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q.fail(key, "must be a number", raw)
		return nil
	}
	return &f
}

func (q *queryParams) fail(key, constraint, raw string) {
	if q.err == nil {
		q.err = models.NewValidationError(key, constraint, raw)
	}
}

// Err returns the first parse failure.
func (q *queryParams) Err() error {
	return q.err
}

// validateRequest validates a request struct with go-playground/validator.
func validateRequest(v interface{}) error {
	if verr := validation.ValidateStruct(v); verr != nil {
		return verr
	}
	return nil
}

// decodeJSON decodes a single JSON object from the request body into v and
// validates it. Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return models.NewValidationError("body", "must be at most 1 MiB", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return models.NewValidationError("body", "must not be empty", nil)
		default:
			return models.NewValidationError("body", "must be a valid JSON object", err.Error())
		}
	}
	if dec.More() {
		return models.NewValidationError("body", "must contain a single JSON object", nil)
	}
	return validateRequest(v)
}
