// Package types contains the wire types shared by the HTTP API and the CLI.
package types

import (
	"math"
	"time"

	"github.com/okian/drawscope/internal/domain/analysis"
	"github.com/okian/drawscope/internal/domain/model"
	"github.com/okian/drawscope/internal/domain/pattern"
	"github.com/okian/drawscope/internal/domain/scoring"
)

// Prediction strategies reported per group.
const (
	StrategySequential = "sequential"
	StrategyFrequency  = "frequency"
	StrategyFallback   = "fallback" // no occurrences, group digits as is
)

// scorePrecision rounds scores and weights on the wire.
const scorePrecision = 1e6

// Analysis is the JSON form of an analysis result.
type Analysis struct {
	Query      string            `json:"query"`
	Mode       string            `json:"mode"`
	WindowDays int               `json:"window_days"`
	LatestDate string            `json:"latest_date"`
	TargetDate string            `json:"target_date"`
	Summary    Summary           `json:"summary"`
	Groups     []GroupPrediction `json:"groups"`
	Matches    []Match           `json:"matches"`
}

// Summary condenses the matches.
type Summary struct {
	TotalMatches int    `json:"total_matches"`
	UniqueDates  int    `json:"unique_dates"`
	GroupsHit    int    `json:"groups_hit"`
	LastSeen     string `json:"last_seen,omitempty"`
}

// Match is one occurrence of the query.
type Match struct {
	Date            string   `json:"date"`
	Label           string   `json:"label"`
	RecordIndex     int      `json:"record_index"`
	Slot            string   `json:"slot"`
	Number          string   `json:"number"`
	Position        int      `json:"position"`
	LastDigit       int      `json:"last_digit"`
	Groups          []string `json:"groups"`
	CombinedDigits  []int    `json:"combined_digits"`
	CombinedNumbers []string `json:"combined_numbers"`
}

// Group is a digit group of the table.
type Group struct {
	Key    string `json:"key"`
	ID     string `json:"id,omitempty"`
	Digits []int  `json:"digits"`
}

// Continuity is the ordering evidence of a group.
type Continuity struct {
	Direction string  `json:"direction"`
	Score     float64 `json:"score"`
	LastDigit *int    `json:"last_digit,omitempty"`
	Points    int     `json:"points"`
}

// DigitWeight is one entry of the weighted frequency ranking.
type DigitWeight struct {
	Digit    int     `json:"digit"`
	Weight   float64 `json:"weight"`
	Observed bool    `json:"observed"`
}

// GroupPrediction is the prediction for one group.
type GroupPrediction struct {
	Group
	Occurrences       int           `json:"occurrences"`
	Strategy          string        `json:"strategy"`
	Continuity        Continuity    `json:"continuity"`
	WeightedFrequency []DigitWeight `json:"weighted_frequency,omitempty"`
	PredictedDigits   []int         `json:"predicted_digits"`
	PredictedNumbers  []string      `json:"predicted_numbers"`
	Confidence        string        `json:"confidence"`
	Reasoning         string        `json:"reasoning"`
}

// Stats is a point-in-time view of the service and its dataset.
type Stats struct {
	State      string `json:"state"`
	Source     string `json:"source,omitempty"`
	Records    int    `json:"records"`
	Numbers    int    `json:"numbers"`
	Skipped    int    `json:"skipped"`
	Duplicates int    `json:"duplicates"`
	FirstDate  string `json:"first_date,omitempty"`
	LatestDate string `json:"latest_date,omitempty"`
	LoadedAt   string `json:"loaded_at,omitempty"`
	LastError  string `json:"last_error,omitempty"`
	Analyses   int64  `json:"analyses"`
}

// FromResult converts an analysis result to its wire form.
func FromResult(res analysis.Result) Analysis {
	out := Analysis{
		Query:      res.Query,
		Mode:       string(res.Mode),
		WindowDays: res.WindowDays,
		LatestDate: formatDate(res.LatestDate),
		TargetDate: formatDate(res.TargetDate),
		Summary: Summary{
			TotalMatches: res.Summary.TotalMatches,
			UniqueDates:  res.Summary.UniqueDates,
			GroupsHit:    res.Summary.GroupsHit,
			LastSeen:     formatDate(res.Summary.LastSeen),
		},
		Groups:  make([]GroupPrediction, 0, len(res.Groups)),
		Matches: make([]Match, 0, len(res.Matches)),
	}
	for _, g := range res.Groups {
		out.Groups = append(out.Groups, fromGroupPrediction(g))
	}
	for _, m := range res.Matches {
		out.Matches = append(out.Matches, Match{
			Date:            formatDate(m.Date),
			Label:           m.Label,
			RecordIndex:     m.RecordIndex,
			Slot:            m.Slot,
			Number:          m.Number,
			Position:        m.Position,
			LastDigit:       m.LastDigit,
			Groups:          append([]string{}, m.Groups...),
			CombinedDigits:  append([]int{}, m.CombinedDigits...),
			CombinedNumbers: append([]string{}, m.CombinedNumbers...),
		})
	}
	return out
}

// FromGroup converts a digit group.
func FromGroup(g pattern.Group) Group {
	return Group{Key: g.Key(), ID: g.ID, Digits: append([]int{}, g.Digits...)}
}

// FromTable converts every group of a table in table order.
func FromTable(t *pattern.Table) []Group {
	groups := t.Groups()
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = FromGroup(g)
	}
	return out
}

func fromGroupPrediction(g analysis.GroupPrediction) GroupPrediction {
	out := GroupPrediction{
		Group:            FromGroup(g.Group),
		Occurrences:      g.Occurrences,
		Strategy:         Strategy(g),
		Continuity:       fromContinuity(g.Continuity),
		PredictedDigits:  append([]int{}, g.PredictedDigits...),
		PredictedNumbers: append([]string{}, g.PredictedNumbers...),
		Confidence:       string(g.Assessment.Level),
		Reasoning:        g.Assessment.Reasoning,
	}
	for _, r := range g.WeightedFrequency {
		out.WeightedFrequency = append(out.WeightedFrequency, DigitWeight{Digit: r.Digit, Weight: round(r.Weight), Observed: r.Observed})
	}
	return out
}

// Strategy names how the digits of a group prediction were chosen.
func Strategy(g analysis.GroupPrediction) string {
	switch {
	case g.Occurrences == 0:
		return StrategyFallback
	case g.Sequential:
		return StrategySequential
	default:
		return StrategyFrequency
	}
}

func fromContinuity(c scoring.Continuity) Continuity {
	out := Continuity{Direction: string(c.Direction), Score: round(c.Score), Points: c.Points}
	if out.Direction == "" {
		out.Direction = string(scoring.None)
	}
	if c.HasLast {
		d := c.LastDigit
		out.LastDigit = &d
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.DateLayout)
}

func round(v float64) float64 {
	return math.Round(v*scorePrecision) / scorePrecision
}
