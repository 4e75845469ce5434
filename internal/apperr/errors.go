// Package apperr holds the sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("forbidden")
	ErrValidation  = errors.New("validation failed")
	ErrEmptyInput  = errors.New("empty input")
	ErrInvalidPath = errors.New("invalid file path")
)
