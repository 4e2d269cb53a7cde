package repository

import "errors"

var (
	// ErrNotFound is returned when a record with the given id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateAdmin is returned when creating an admin whose username
	// is already taken.
	ErrDuplicateAdmin = errors.New("admin already exists")
)
