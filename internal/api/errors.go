// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/serielens/internal/logging"
	"github.com/tomtom215/serielens/internal/models"
	"github.com/tomtom215/serielens/internal/validation"
)

// ValidationDetail is the details payload of a VALIDATION_FAILED error.
type ValidationDetail struct {
	Field      string      `json:"field"`
	Constraint string      `json:"constraint"`
	Value      interface{} `json:"value,omitempty"`
}

// FromError writes the envelope matching err's category.
func (rw *ResponseWriter) FromError(err error) {
	var (
		verr     *models.ValidationError
		reqErr   *validation.RequestValidationError
		notFound *models.NotFoundError
		noData   *models.DataUnavailableError
	)

	switch {
	case errors.As(err, &reqErr):
		rw.ValidationError(reqErr.Error(), reqErr.Fields)
	case errors.As(err, &verr):
		rw.ValidationError(verr.Error(), []ValidationDetail{{
			Field:      verr.Field,
			Constraint: verr.Constraint,
			Value:      verr.Value,
		}})
	case errors.As(err, &notFound):
		rw.ErrorWithDetails(http.StatusNotFound, ErrCodeNotFound, notFound.Error(), map[string]string{
			"kind": notFound.Kind,
			"id":   notFound.ID,
		})
	case errors.As(err, &noData):
		rw.ServiceUnavailable(noData.Error())
	case errors.Is(err, models.ErrBuildInProgress):
		rw.Error(http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logging.Ctx(rw.r.Context()).Warn().Err(err).Str("path", rw.r.URL.Path).Msg("Request aborted")
		rw.ServiceUnavailable("request timed out or was cancelled")
	default:
		logging.Ctx(rw.r.Context()).Error().Err(err).
			Str("method", rw.r.Method).
			Str("path", rw.r.URL.Path).
			Msg("Unhandled API error")
		rw.InternalError("an internal error occurred")
	}
}
