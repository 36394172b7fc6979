// Package model contains domain models passed between layers.
package model

import "time"

// DateLayout is the canonical layout used when a date is rendered back to callers.
const DateLayout = "2006-01-02"

// Slot is one prize slot of a draw day and the numbers published for it.
type Slot struct {
	ID      string   // slot identifier as written in the source, e.g. "1st", "5000"
	Numbers []string // raw number strings in source order
}

// Record is one draw day. Records are immutable once loaded into a store.
type Record struct {
	Index int       // position in the date-sorted store
	Date  time.Time // civil date at UTC midnight
	Label string    // date as written in the source
	Slots []Slot    // slots in source order
}

// NumberCount returns the number of slot entries carried by the record.
func (r Record) NumberCount() int {
	n := 0
	for _, s := range r.Slots {
		n += len(s.Numbers)
	}
	return n
}

// Occurrence is a single matched appearance of a query inside a record's number.
type Occurrence struct {
	Date        time.Time
	Label       string
	Slot        string
	Number      string // number as matched (after width padding)
	Position    int    // byte offset of the first match inside Number
	LastDigit   int    // final digit of Number, 0-9
	RecordIndex int
}

// CivilDate truncates t to its calendar date at UTC midnight.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
