package scoring

import (
	"sort"

	"github.com/okian/drawscope/internal/domain/model"
	"github.com/okian/drawscope/internal/domain/pattern"
	"github.com/okian/drawscope/internal/domain/recency"
)

// DefaultFrequencyFloor is the weight given to a group digit never observed.
const DefaultFrequencyFloor = 0.05

// Ranked is one digit of a frequency ranking.
type Ranked struct {
	Digit    int
	Weight   float64
	Observed bool
}

// RankByFrequency sums, per group digit, the recency weights of the
// occurrences ending in that digit. Unobserved digits get floor. Digits are
// sorted by weight descending; on equal weight observed digits come first,
// then group order.
func RankByFrequency(group pattern.Group, occurrences []model.Occurrence, weights recency.Weights, floor float64) []Ranked {
	ranked := make([]Ranked, len(group.Digits))
	for i, d := range group.Digits {
		ranked[i].Digit = d
	}
	for _, o := range occurrences {
		idx := group.Index(o.LastDigit)
		if idx < 0 {
			continue
		}
		ranked[idx].Weight += weights.For(o.Date)
		ranked[idx].Observed = true
	}
	for i := range ranked {
		if !ranked[i].Observed {
			ranked[i].Weight = floor
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Weight != ranked[j].Weight {
			return ranked[i].Weight > ranked[j].Weight
		}
		return ranked[i].Observed && !ranked[j].Observed
	})
	return ranked
}

// Digits extracts the digit order of a ranking.
func Digits(ranked []Ranked) []int {
	out := make([]int, len(ranked))
	for i, r := range ranked {
		out[i] = r.Digit
	}
	return out
}
