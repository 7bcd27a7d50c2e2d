// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package models

import (
	"errors"
	"fmt"
)

// ErrInsufficientSignal is raised inside the collaborative recommender when no
// prediction can be made. Callers absorb it and fall back to popularity; it
// never crosses the recommendation boundary.
var ErrInsufficientSignal = errors.New("insufficient collaborative signal")

// ErrBuildInProgress is returned when an index build is started while another
// build holds the same output.
var ErrBuildInProgress = errors.New("index build already in progress")

// ValidationError reports an input that violates a named constraint.
type ValidationError struct {
	Field      string
	Constraint string
	Value      interface{}
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, constraint string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Constraint: constraint, Value: value}
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Constraint)
	}
	return fmt.Sprintf("invalid %s: %s (got %v)", e.Field, e.Constraint, e.Value)
}

// NotFoundError reports an unknown id passed to an id-keyed lookup.
type NotFoundError struct {
	// Kind is the entity kind: "user", "item" or "rating".
	Kind string
	ID   string
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// DataUnavailableError reports a read against an index that was never built.
type DataUnavailableError struct {
	Resource string
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: no index has been built", e.Resource)
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsDataUnavailable reports whether err wraps a *DataUnavailableError.
func IsDataUnavailable(err error) bool {
	var target *DataUnavailableError
	return errors.As(err, &target)
}
