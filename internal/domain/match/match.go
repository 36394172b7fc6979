// Package match finds the occurrences of a digit query inside draw records.
package match

import (
	"fmt"
	"strings"

	"github.com/okian/drawscope/internal/domain/model"
)

// Query length bounds.
const (
	MinQueryLen = 1
	MaxQueryLen = 3
)

// DefaultNumberWidth is the width prize numbers are padded to before matching.
const DefaultNumberWidth = 4

// Mode selects how a query is tested against a number.
type Mode string

// Supported match modes.
const (
	Contains Mode = "contains"
	Prefix   Mode = "prefix"
)

// ParseMode maps user input to a Mode. An empty string and "any" mean Contains.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", string(Contains):
		return Contains, nil
	case string(Prefix):
		return Prefix, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrInvalidMode)
	}
}

// NormalizeQuery validates q and left-pads it with zeros to width when width
// is wider than q. Width 0 or below disables padding; a width above
// MaxQueryLen is rejected with ErrInvalidWidth.
func NormalizeQuery(q string, width int) (string, error) {
	if width > MaxQueryLen {
		return "", fmt.Errorf("query width %d exceeds %d: %w", width, MaxQueryLen, ErrInvalidWidth)
	}
	q = strings.TrimSpace(q)
	if len(q) < MinQueryLen || len(q) > MaxQueryLen {
		return "", fmt.Errorf("query %q must be %d-%d digits: %w", q, MinQueryLen, MaxQueryLen, ErrInvalidQuery)
	}
	if !isDigits(q) {
		return "", fmt.Errorf("query %q must contain only digits 0-9: %w", q, ErrInvalidQuery)
	}
	return padLeft(q, width), nil
}

// Find scans every slot number of every record and returns the numbers
// matching query under mode. Numbers that are not pure digit strings are
// skipped. Numbers shorter than numberWidth are left-padded with zeros
// first; numberWidth 0 keeps them as written.
//
// The result is ordered most recent record first; within a record, slot
// order then number order. query must already be normalized.
func Find(records []model.Record, query string, mode Mode, numberWidth int) []model.Occurrence {
	var out []model.Occurrence
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		for _, slot := range rec.Slots {
			for _, raw := range slot.Numbers {
				num := strings.TrimSpace(raw)
				if num == "" || !isDigits(num) {
					continue
				}
				num = padLeft(num, numberWidth)
				pos := position(num, query, mode)
				if pos < 0 {
					continue
				}
				out = append(out, model.Occurrence{
					Date:        rec.Date,
					Label:       rec.Label,
					Slot:        slot.ID,
					Number:      num,
					Position:    pos,
					LastDigit:   int(num[len(num)-1] - '0'),
					RecordIndex: rec.Index,
				})
			}
		}
	}
	return out
}

func position(num, query string, mode Mode) int {
	if mode == Prefix {
		if strings.HasPrefix(num, query) {
			return 0
		}
		return -1
	}
	return strings.Index(num, query)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
