// Package repository holds the immutable draw record store.
package repository

import (
	"time"

	"github.com/okian/drawscope/internal/domain/model"
)

// Stats summarizes the contents of a store.
type Stats struct {
	Records    int
	Numbers    int
	Duplicates int // records dropped or merged because their date was already present
	First      time.Time
	Latest     time.Time
}

// Store provides read-only access to date-sorted draw records.
type Store interface {
	// Records returns every record sorted ascending by date. The slice is
	// shared and must not be modified.
	Records() []model.Record

	// Latest returns the most recent draw date, false when the store is empty.
	Latest() (time.Time, bool)

	// Day returns the record drawn on date.
	// Returns ErrNotFound if no record has that date.
	Day(date time.Time) (model.Record, error)

	// Len returns the number of records.
	Len() int

	// Stats returns a summary of the store.
	Stats() Stats
}
