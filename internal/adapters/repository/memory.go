package repository

import (
	"fmt"
	"sort"
	"time"

	"github.com/okian/drawscope/internal/domain/model"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory Store built once and never mutated.
type MemoryStore struct {
	records         []model.Record
	byDate          map[time.Time]int
	stats           Stats
	dropDuplicates bool
}

// NewMemoryStore copies records, sorts them ascending by date (stable, so
// records of equal date keep their input order) and assigns each its
// position as Index. Records sharing a date are merged into the first: their
// slots are appended in input order so every number stays searchable.
func NewMemoryStore(records []model.Record, opts ...Option) (*MemoryStore, error) {
	s := &MemoryStore{}
	for _, opt := range opts {
		opt(s)
	}

	sorted := make([]model.Record, 0, len(records))
	for i, r := range records {
		if r.Date.IsZero() {
			return nil, fmt.Errorf("record %d (%q): %w", i, r.Label, ErrNoDate)
		}
		r.Date = model.CivilDate(r.Date)
		r.Slots = cloneSlots(r.Slots)
		sorted = append(sorted, r)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	s.records = make([]model.Record, 0, len(sorted))
	s.byDate = make(map[time.Time]int, len(sorted))
	for _, r := range sorted {
		if pos, dup := s.byDate[r.Date]; dup {
			s.stats.Duplicates++
			if !s.dropDuplicates {
				s.records[pos].Slots = append(s.records[pos].Slots, r.Slots...)
			}
			continue
		}
		r.Index = len(s.records)
		s.byDate[r.Date] = r.Index
		s.records = append(s.records, r)
	}

	s.stats.Records = len(s.records)
	for _, r := range s.records {
		s.stats.Numbers += r.NumberCount()
	}
	if n := len(s.records); n > 0 {
		s.stats.First = s.records[0].Date
		s.stats.Latest = s.records[n-1].Date
	}
	return s, nil
}

// Records returns every record sorted ascending by date.
func (s *MemoryStore) Records() []model.Record { return s.records }

// Latest returns the most recent draw date.
func (s *MemoryStore) Latest() (time.Time, bool) {
	if len(s.records) == 0 {
		return time.Time{}, false
	}
	return s.stats.Latest, true
}

// Day returns the record drawn on date.
func (s *MemoryStore) Day(date time.Time) (model.Record, error) {
	pos, ok := s.byDate[model.CivilDate(date)]
	if !ok {
		return model.Record{}, fmt.Errorf("%s: %w", date.Format(model.DateLayout), ErrNotFound)
	}
	return s.records[pos], nil
}

// Len returns the number of records.
func (s *MemoryStore) Len() int { return len(s.records) }

// Stats returns a summary of the store.
func (s *MemoryStore) Stats() Stats { return s.stats }

func cloneSlots(in []model.Slot) []model.Slot {
	out := make([]model.Slot, len(in))
	for i, slot := range in {
		out[i] = model.Slot{ID: slot.ID, Numbers: append([]string(nil), slot.Numbers...)}
	}
	return out
}
