package analysis

import (
	"errors"

	"github.com/okian/drawscope/internal/domain/match"
)

// Sentinel kinds returned by Analyze.
var (
	ErrNoData       = errors.New("no draw data loaded")
	ErrInvalidQuery = match.ErrInvalidQuery
	ErrInvalidMode  = match.ErrInvalidMode
	ErrInvalidWidth = match.ErrInvalidWidth
)
