package repository

import "errors"

// Sentinel kinds for directory errors.
var (
	ErrNotFound    = errors.New("guard not found")
	ErrDuplicateID = errors.New("guard id already exists")
	ErrPersist     = errors.New("persist directory snapshot")
)
