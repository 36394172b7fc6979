package scoring

import (
	"sort"

	"github.com/okian/drawscope/internal/domain/model"
	"github.com/okian/drawscope/internal/domain/pattern"
	"github.com/okian/drawscope/internal/domain/recency"
)

// Direction is the group ordering an occurrence history walks through.
type Direction string

// Continuity directions.
const (
	Forward Direction = "forward"
	Reverse Direction = "reverse"
	None    Direction = "none"
)

// Continuity describes how closely the chronological last digits of a
// bucket follow the group ordering.
type Continuity struct {
	Direction Direction
	Score     float64 // in [0, 1]
	LastDigit int     // digit of the chronologically last occurrence
	HasLast   bool
	Points    int // occurrences whose digit lies in the ordering
}

// AnalyzeContinuity scores the forward and reverse orderings of group over
// the occurrences sorted oldest first. A digit counts towards continuity when
// its ordering index is strictly greater than the index of the previous
// in-ordering digit; the first in-ordering digit always counts. Ties favour
// Forward.
func AnalyzeContinuity(group pattern.Group, occurrences []model.Occurrence, weights recency.Weights) Continuity {
	if len(occurrences) == 0 {
		return Continuity{Direction: None}
	}
	sorted := chronological(occurrences)

	fwdScore, points := walk(group, sorted, weights)
	revScore, _ := walk(group.Reversed(), sorted, weights)

	c := Continuity{
		LastDigit: sorted[len(sorted)-1].LastDigit,
		HasLast:   true,
		Points:    points,
	}
	switch {
	case points == 0:
		c.Direction = None
	case fwdScore >= revScore:
		c.Direction, c.Score = Forward, fwdScore
	default:
		c.Direction, c.Score = Reverse, revScore
	}
	return c
}

// walk returns continuitySum/weightSum for one ordering and the number of
// occurrences that fell inside it.
func walk(ordering pattern.Group, sorted []model.Occurrence, weights recency.Weights) (float64, int) {
	prevIdx := -1
	var continuitySum, weightSum float64
	points := 0
	for _, o := range sorted {
		idx := ordering.Index(o.LastDigit)
		if idx < 0 {
			continue
		}
		w := weights.For(o.Date)
		if idx > prevIdx {
			continuitySum += w
		}
		weightSum += w
		prevIdx = idx
		points++
	}
	if weightSum == 0 {
		return 0, points
	}
	return continuitySum / weightSum, points
}

// chronological returns a copy sorted oldest record first, keeping the
// within-record order of the input.
func chronological(occurrences []model.Occurrence) []model.Occurrence {
	sorted := append([]model.Occurrence(nil), occurrences...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RecordIndex < sorted[j].RecordIndex
	})
	return sorted
}
