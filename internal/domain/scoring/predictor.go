package scoring

import (
	"github.com/okian/drawscope/internal/domain/recency"
)

// Default predictor configuration constants.
const (
	DefaultThreshold = 0.45
	DefaultMinPoints = 2
)

// Option applies a configuration option to the Predictor.
type Option func(*Predictor)

// WithThreshold sets the continuity score at or above which the predictor
// continues the group ordering. Values outside [0, 1] are ignored.
func WithThreshold(threshold float64) Option {
	return func(p *Predictor) {
		if threshold >= 0 && threshold <= 1 {
			p.threshold = threshold
		}
	}
}

// WithMinPoints sets how many in-group occurrences are needed before
// continuity counts as evidence.
func WithMinPoints(n int) Option {
	return func(p *Predictor) {
		if n > 0 {
			p.minPoints = n
		}
	}
}

// WithFrequencyFloor sets the weight of unobserved digits in the frequency
// ranking.
func WithFrequencyFloor(floor float64) Option {
	return func(p *Predictor) {
		if floor > 0 {
			p.floor = floor
		}
	}
}

// Prediction is the ranked digit list for one bucket and the evidence
// behind it.
type Prediction struct {
	Digits     []int
	Continuity Continuity
	Frequency  []Ranked
	Sequential bool // the ordering continuation was used
}

// Predictor turns a bucket into ranked candidate trailing digits.
type Predictor struct {
	threshold float64
	minPoints int
	floor     float64
}

// NewPredictor creates a predictor with configuration options.
func NewPredictor(opts ...Option) *Predictor {
	p := &Predictor{
		threshold: DefaultThreshold,
		minPoints: DefaultMinPoints,
		floor:     DefaultFrequencyFloor,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Threshold returns the configured continuity threshold.
func (p *Predictor) Threshold() float64 { return p.threshold }

// Predict ranks the next digits for bucket. An empty bucket yields the group
// digits unchanged. When continuity is strong enough the next digit of the
// winning ordering leads, followed by the frequency ranking and the group
// digits, without repeats. Otherwise the frequency ranking is returned.
func (p *Predictor) Predict(bucket *Bucket, weights recency.Weights) Prediction {
	group := bucket.Group
	if len(bucket.Occurrences) == 0 {
		return Prediction{
			Digits:     append([]int(nil), group.Digits...),
			Continuity: Continuity{Direction: None},
		}
	}

	cont := AnalyzeContinuity(group, bucket.Occurrences, weights)
	freq := RankByFrequency(group, bucket.Occurrences, weights, p.floor)
	pred := Prediction{Continuity: cont, Frequency: freq}

	if cont.Score >= p.threshold && cont.HasLast && cont.Points >= p.minPoints {
		seq := group
		if cont.Direction == Reverse {
			seq = group.Reversed()
		}
		pred.Digits = mergeUnique(continuation(seq.Digits, seq.Index(cont.LastDigit)), Digits(freq), group.Digits)
		pred.Sequential = true
		return pred
	}

	pred.Digits = Digits(freq)
	return pred
}

// continuation proposes the element after idx, or when idx is the last
// position (or absent) the first element plus the one before idx.
func continuation(seq []int, idx int) []int {
	if idx >= 0 && idx < len(seq)-1 {
		return []int{seq[idx+1]}
	}
	var out []int
	if len(seq) > 0 {
		out = append(out, seq[0])
	}
	if len(seq) > 1 && idx-1 >= 0 {
		out = append(out, seq[idx-1])
	}
	return out
}

func mergeUnique(lists ...[]int) []int {
	var seen [10]bool
	var out []int
	for _, l := range lists {
		for _, d := range l {
			if d < 0 || d > 9 || seen[d] {
				continue
			}
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}
