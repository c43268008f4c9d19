package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a user insert collides with an
// existing email (case-insensitive).
var ErrDuplicateEmail = errors.New("email already registered")
