package match

import "errors"

// Sentinel kinds for query validation.
var (
	ErrInvalidQuery = errors.New("invalid query")
	ErrInvalidMode  = errors.New("invalid match mode")
	ErrInvalidWidth = errors.New("invalid padding width")
)
