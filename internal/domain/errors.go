package domain

import "errors"

// Shared sentinel errors. Repositories translate driver errors into these;
// services and controllers branch on them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)
