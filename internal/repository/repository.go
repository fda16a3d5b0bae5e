package repository

import "errors"

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.

// ErrConflict is returned by Save implementations when the optimistic
// version check fails: another writer advanced the document between the
// caller's read and this write. Callers reload and re-evaluate.
var ErrConflict = errors.New("document was modified concurrently")

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
