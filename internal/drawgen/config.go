// Package drawgen generates synthetic draw history for demos, load tests and
// fixtures. Output is fully determined by the seed.
package drawgen

import (
	"errors"
	"runtime"
	"time"
)

// DateLayout is the DD-MM-YYYY layout of the generated day labels.
const DateLayout = "02-01-2006"

// Default generation constants.
const (
	defaultDays  = 90
	defaultSeed  = 1
	numberWidth  = 4
	numberSpace  = 10000
	maxSlotCount = 1000
)

// Sentinel kinds for configuration errors.
var (
	ErrInvalidDays  = errors.New("days must be positive")
	ErrInvalidSlots = errors.New("invalid slot list")
)

// SlotSpec describes one prize slot and how many numbers it carries per day.
type SlotSpec struct {
	ID    string
	Count int
}

// DefaultSlots returns the nine prize slots of a draw day, highest prize first.
func DefaultSlots() []SlotSpec {
	return []SlotSpec{
		{ID: "1st", Count: 1},
		{ID: "2nd", Count: 1},
		{ID: "3rd", Count: 1},
		{ID: "5000", Count: 10},
		{ID: "2000", Count: 10},
		{ID: "1000", Count: 10},
		{ID: "500", Count: 20},
		{ID: "200", Count: 20},
		{ID: "100", Count: 20},
	}
}

// Config holds generation settings.
type Config struct {
	Days      int        // number of consecutive draw days
	End       time.Time  // date of the last day; zero means today
	Seed      uint64     // RNG seed
	Slots     []SlotSpec // slot layout of every day
	TrimZeros bool       // write numbers below 1000 without leading zeros
	Workers   int        // days generated concurrently
}

// DefaultConfig returns a Config with defaults.
func DefaultConfig() Config {
	return Config{
		Days:      defaultDays,
		Seed:      defaultSeed,
		Slots:     DefaultSlots(),
		TrimZeros: true,
		Workers:   runtime.NumCPU(),
	}
}

func (c Config) validate() error {
	if c.Days <= 0 {
		return ErrInvalidDays
	}
	if len(c.Slots) == 0 {
		return ErrInvalidSlots
	}
	seen := make(map[string]bool, len(c.Slots))
	for _, s := range c.Slots {
		if s.ID == "" || s.Count <= 0 || s.Count > maxSlotCount || seen[s.ID] {
			return ErrInvalidSlots
		}
		seen[s.ID] = true
	}
	return nil
}
