// Package repository holds the errors shared by every store backend.
package repository

import "errors"

var (
	// ErrNotFound is returned when a write targets a missing document.
	ErrNotFound = errors.New("document not found")
	// ErrConflict is returned when a conditional write finds the document in
	// another state than expected.
	ErrConflict = errors.New("document state changed")
	// ErrDuplicate is returned when creating a document whose id exists.
	ErrDuplicate = errors.New("document already exists")
)
