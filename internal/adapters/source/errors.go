package source

import "errors"

// Sentinel kinds for loading draw data.
var (
	ErrLoad             = errors.New("load draw data")
	ErrUnsupportedShape = errors.New("unsupported dataset shape")
	ErrInvalidDate      = errors.New("invalid draw date")
	ErrInvalidTable     = errors.New("invalid table name")
)
