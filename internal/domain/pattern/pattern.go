// Package pattern defines the fixed digit groups used to classify a
// number's trailing digit.
//
// A Group is an ordered sequence of distinct digits. Groups are collected
// into a Table once at process start and never mutated afterwards; callers
// receive copies, so a Table may be shared between concurrent analyses.
package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

// Group is a named (or anonymous) ordered digit group.
type Group struct {
	ID     string `json:"id,omitempty" koanf:"id"`
	Digits []int  `json:"digits" koanf:"digits"`
}

// Key returns the canonical identity of the group: its ID when set,
// otherwise the digit sequence joined by commas.
func (g Group) Key() string {
	if g.ID != "" {
		return g.ID
	}
	return g.Sequence()
}

// Sequence renders the digits in order, e.g. "0,4,5".
func (g Group) Sequence() string {
	parts := make([]string, len(g.Digits))
	for i, d := range g.Digits {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// String implements fmt.Stringer.
func (g Group) String() string {
	if g.ID == "" {
		return "[" + g.Sequence() + "]"
	}
	return g.ID + "[" + g.Sequence() + "]"
}

// Contains reports whether d belongs to the group.
func (g Group) Contains(d int) bool {
	return g.Index(d) >= 0
}

// Index returns the position of d in the group ordering, or -1.
func (g Group) Index(d int) int {
	for i, x := range g.Digits {
		if x == d {
			return i
		}
	}
	return -1
}

// Reversed returns the group with its ordering reversed.
func (g Group) Reversed() Group {
	rev := make([]int, len(g.Digits))
	for i, d := range g.Digits {
		rev[len(g.Digits)-1-i] = d
	}
	return Group{ID: g.ID, Digits: rev}
}

// clone returns a deep copy so callers cannot alias table state.
func (g Group) clone() Group {
	return Group{ID: g.ID, Digits: append([]int(nil), g.Digits...)}
}

// Validate checks the group invariants: non-empty, digits 0-9, no duplicates.
func (g Group) Validate() error {
	if len(g.Digits) == 0 {
		return fmt.Errorf("group %q: %w", g.ID, ErrEmptyGroup)
	}
	var seen [10]bool
	for _, d := range g.Digits {
		if d < 0 || d > 9 {
			return fmt.Errorf("group %q: digit %d: %w", g.ID, d, ErrDigitRange)
		}
		if seen[d] {
			return fmt.Errorf("group %q: digit %d: %w", g.ID, d, ErrDuplicateDigit)
		}
		seen[d] = true
	}
	return nil
}
