// Package analysis composes matching, weighting and scoring into a single
// query boundary over an immutable set of draw records.
package analysis

import (
	"fmt"
	"time"

	"github.com/okian/drawscope/internal/domain/match"
	"github.com/okian/drawscope/internal/domain/model"
	"github.com/okian/drawscope/internal/domain/pattern"
	"github.com/okian/drawscope/internal/domain/recency"
	"github.com/okian/drawscope/internal/domain/scoring"
)

// RecordSource is the read-only view of a record store the engine needs.
// Records must be sorted ascending by date with Index equal to the position.
type RecordSource interface {
	Records() []model.Record
	Latest() (time.Time, bool)
}

// NoPadding turns width padding off. Layers that fill zero-valued options
// from their own defaults leave it untouched, so it survives where 0 does not.
const NoPadding = -1

// Options tunes a single analysis.
type Options struct {
	Mode        match.Mode // empty means contains
	WindowDays  int        // <= 0 uses the recency default
	TopN        int        // <= 0 keeps every predicted number
	QueryWidth  int        // left-pad the query to this width (max 3); 0 or NoPadding disables
	NumberWidth int        // left-pad stored numbers to this width; 0 or NoPadding disables
	AllGroups   bool       // include groups without occurrences
}

// CombinedDepth is how many leading digits of each group prediction feed the
// combined prediction of a match.
const CombinedDepth = 4

// GroupPrediction is the outcome for one digit group.
type GroupPrediction struct {
	Group             pattern.Group
	Occurrences       int
	Continuity        scoring.Continuity
	WeightedFrequency []scoring.Ranked
	Sequential        bool
	PredictedDigits   []int
	PredictedNumbers  []string
	Assessment        scoring.Assessment
}

// Match is an occurrence together with the groups its last digit belongs to
// and the union of their leading predictions.
type Match struct {
	model.Occurrence
	Groups          []string // keys of the groups containing LastDigit, table order
	CombinedDigits  []int    // ascending
	CombinedNumbers []string
}

// Summary condenses the matches of an analysis.
type Summary struct {
	TotalMatches int
	UniqueDates  int
	GroupsHit    int
	LastSeen     time.Time // date of the most recent match, zero when none
}

// Result is the full answer to a query.
type Result struct {
	Query      string
	Mode       match.Mode
	WindowDays int
	LatestDate time.Time
	TargetDate time.Time // the draw day after LatestDate
	Matches    []Match
	Groups     []GroupPrediction
	Summary    Summary
}

// EngineOption applies a configuration option to the Engine.
type EngineOption func(*Engine)

// WithTable sets the digit-group table. A nil table is ignored.
func WithTable(t *pattern.Table) EngineOption {
	return func(e *Engine) {
		if t != nil {
			e.table = t
		}
	}
}

// WithPredictor sets the predictor. A nil predictor is ignored.
func WithPredictor(p *scoring.Predictor) EngineOption {
	return func(e *Engine) {
		if p != nil {
			e.predictor = p
		}
	}
}

// WithMinWeight sets the recency weight floor.
func WithMinWeight(w float64) EngineOption {
	return func(e *Engine) {
		if w > 0 && w <= 1 {
			e.minWeight = w
		}
	}
}

// Engine runs analyses. It holds no per-query state and is safe for
// concurrent use.
type Engine struct {
	table     *pattern.Table
	predictor *scoring.Predictor
	minWeight float64
}

// NewEngine creates an engine over the default group table.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		table:     pattern.Default(),
		predictor: scoring.NewPredictor(),
		minWeight: recency.DefaultMinWeight,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Table returns the digit-group table the engine scores against.
func (e *Engine) Table() *pattern.Table { return e.table }

// Analyze validates query, finds its occurrences in src and predicts
// follow-on numbers per digit group. The same src, query and opts always
// produce the same Result.
func (e *Engine) Analyze(src RecordSource, query string, opts Options) (Result, error) {
	mode := opts.Mode
	if mode == "" {
		mode = match.Contains
	}
	if mode != match.Contains && mode != match.Prefix {
		return Result{}, fmt.Errorf("analyze: mode %q: %w", mode, ErrInvalidMode)
	}
	q, err := match.NormalizeQuery(query, opts.QueryWidth)
	if err != nil {
		return Result{}, fmt.Errorf("analyze: %w", err)
	}
	if src == nil {
		return Result{}, ErrNoData
	}
	records := src.Records()
	latest, ok := src.Latest()
	if len(records) == 0 || !ok {
		return Result{}, ErrNoData
	}

	occ := match.Find(records, q, mode, opts.NumberWidth)
	weights := recency.Compute(records, latest, opts.WindowDays, recency.WithMinWeight(e.minWeight))
	buckets := scoring.Aggregate(e.table, occ)

	list := buckets.All()
	if opts.AllGroups {
		list = buckets.Complete()
	}

	res := Result{
		Query:      q,
		Mode:       mode,
		WindowDays: weights.WindowDays(),
		LatestDate: latest,
		TargetDate: latest.AddDate(0, 0, 1),
		Groups:     make([]GroupPrediction, 0, len(list)),
		Summary:    summarize(occ, buckets.Len()),
	}
	full := make(map[string][]int, len(list))
	for _, b := range list {
		pred := e.predictor.Predict(b, weights)
		full[b.Group.Key()] = pred.Digits
		digits := pred.Digits
		if opts.TopN > 0 && len(digits) > opts.TopN {
			digits = digits[:opts.TopN]
		}
		res.Groups = append(res.Groups, GroupPrediction{
			Group:             b.Group,
			Occurrences:       len(b.Occurrences),
			Continuity:        pred.Continuity,
			WeightedFrequency: pred.Frequency,
			Sequential:        pred.Sequential,
			PredictedDigits:   digits,
			PredictedNumbers:  numbers(q, digits),
			Assessment:        scoring.Assess(b, weights, len(occ)),
		})
	}
	res.Matches = e.matches(q, occ, full)
	return res, nil
}

// matches annotates each occurrence with its groups and merges the first
// CombinedDepth predicted digits of those groups.
func (e *Engine) matches(query string, occ []model.Occurrence, predicted map[string][]int) []Match {
	out := make([]Match, len(occ))
	for i, o := range occ {
		var seen [10]bool
		m := Match{Occurrence: o}
		for _, g := range e.table.Containing(o.LastDigit) {
			key := g.Key()
			m.Groups = append(m.Groups, key)
			digits := predicted[key]
			if len(digits) > CombinedDepth {
				digits = digits[:CombinedDepth]
			}
			for _, d := range digits {
				seen[d] = true
			}
		}
		for d, ok := range seen {
			if ok {
				m.CombinedDigits = append(m.CombinedDigits, d)
			}
		}
		m.CombinedNumbers = numbers(query, m.CombinedDigits)
		out[i] = m
	}
	return out
}

func numbers(query string, digits []int) []string {
	out := make([]string, len(digits))
	for i, d := range digits {
		out[i] = query + string(rune('0'+d))
	}
	return out
}

func summarize(occ []model.Occurrence, groupsHit int) Summary {
	s := Summary{TotalMatches: len(occ), GroupsHit: groupsHit}
	dates := make(map[time.Time]struct{})
	for _, o := range occ {
		dates[o.Date] = struct{}{}
		if o.Date.After(s.LastSeen) {
			s.LastSeen = o.Date
		}
	}
	s.UniqueDates = len(dates)
	return s
}
