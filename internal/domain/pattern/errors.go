package pattern

import "errors"

// Sentinel kinds for digit group validation.
var (
	ErrNoGroups       = errors.New("no digit groups defined")
	ErrEmptyGroup     = errors.New("digit group is empty")
	ErrDigitRange     = errors.New("digit out of range 0-9")
	ErrDuplicateDigit = errors.New("duplicate digit in group")
	ErrDuplicateGroup = errors.New("duplicate digit group")
)
