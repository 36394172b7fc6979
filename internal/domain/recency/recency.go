// Package recency converts a record's distance from the latest draw date
// into a linear decay weight.
package recency

import (
	"math"
	"time"

	"github.com/okian/drawscope/internal/domain/model"
)

// Default weighting constants.
const (
	DefaultWindowDays = 14
	DefaultMinWeight  = 0.05
	hoursPerDay       = 24
)

// Option applies a configuration option to Compute.
type Option func(*settings)

type settings struct {
	minWeight float64
}

// WithMinWeight sets the floor every weight is clamped to. Values outside
// (0, 1] are ignored.
func WithMinWeight(w float64) Option {
	return func(s *settings) {
		if w > 0 && w <= 1 {
			s.minWeight = w
		}
	}
}

// Weights maps a draw date to its recency weight.
type Weights struct {
	byDate     map[time.Time]float64
	minWeight  float64
	windowDays int
	latest     time.Time
}

// DaysBack returns the whole number of days from date to latest, rounded,
// and clamped to zero for dates after latest.
func DaysBack(latest, date time.Time) int {
	days := math.Round(latest.Sub(date).Hours() / hoursPerDay)
	if days < 0 {
		return 0
	}
	return int(days)
}

// Weight returns clamp(1 - daysBack/windowDays, minWeight, 1).
func Weight(daysBack, windowDays int, minWeight float64) float64 {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	w := 1 - float64(daysBack)/float64(windowDays)
	return math.Max(minWeight, math.Min(1, w))
}

// Compute derives the weight of every record date relative to latest.
// windowDays <= 0 falls back to DefaultWindowDays.
func Compute(records []model.Record, latest time.Time, windowDays int, opts ...Option) Weights {
	s := settings{minWeight: DefaultMinWeight}
	for _, opt := range opts {
		opt(&s)
	}
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	w := Weights{
		byDate:     make(map[time.Time]float64, len(records)),
		minWeight:  s.minWeight,
		windowDays: windowDays,
		latest:     latest,
	}
	for _, rec := range records {
		w.byDate[rec.Date] = Weight(DaysBack(latest, rec.Date), windowDays, s.minWeight)
	}
	return w
}

// For returns the weight of date, or the minimum weight for unknown dates.
func (w Weights) For(date time.Time) float64 {
	if v, ok := w.byDate[date]; ok {
		return v
	}
	return w.minWeight
}

// MinWeight returns the floor applied to every weight.
func (w Weights) MinWeight() float64 { return w.minWeight }

// WindowDays returns the effective decay window.
func (w Weights) WindowDays() int { return w.windowDays }

// Latest returns the reference date.
func (w Weights) Latest() time.Time { return w.latest }

// Len returns the number of distinct dates weighted.
func (w Weights) Len() int { return len(w.byDate) }
