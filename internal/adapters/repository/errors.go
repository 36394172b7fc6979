package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound = errors.New("draw day not found")
	ErrNoDate   = errors.New("record has no date")
)
