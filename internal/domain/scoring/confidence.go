package scoring

import (
	"fmt"
	"strings"

	"github.com/okian/drawscope/internal/domain/recency"
)

// Confidence is the coarse tier reported next to a group prediction.
type Confidence string

// Confidence tiers.
const (
	Low    Confidence = "low"
	Medium Confidence = "medium"
	High   Confidence = "high"
)

// HighValueSlots are the prize slots whose appearances are called out in
// the reasoning line.
var HighValueSlots = []string{"1st", "2nd", "3rd", "5000"}

// Assessment is the evidence behind a group's confidence tier.
type Assessment struct {
	Level     Confidence
	Score     float64 // 10 * weighted group occurrences / total matches
	Recent    int     // occurrences inside the recency window
	HighValue int     // occurrences in a high-value slot
	Reasoning string
}

// Assess grades bucket against the whole query. A group scoring above 6, or
// with at least two recent occurrences out of three or more, is high; above 3
// or with any recent occurrence it is medium; anything else is low.
func Assess(bucket *Bucket, weights recency.Weights, totalMatches int) Assessment {
	var a Assessment
	weighted := 0.0
	for _, o := range bucket.Occurrences {
		weighted += weights.For(o.Date)
		if recency.DaysBack(weights.Latest(), o.Date) < weights.WindowDays() {
			a.Recent++
		}
		if isHighValue(o.Slot) {
			a.HighValue++
		}
	}
	if totalMatches > 0 {
		a.Score = 10 * weighted / float64(totalMatches)
	}

	n := len(bucket.Occurrences)
	switch {
	case n == 0:
		a.Level = Low
	case a.Score > 6 || (a.Recent >= 2 && n >= 3):
		a.Level = High
	case a.Score > 3 || a.Recent >= 1:
		a.Level = Medium
	default:
		a.Level = Low
	}
	a.Reasoning = reasoning(bucket, a)
	return a
}

func reasoning(bucket *Bucket, a Assessment) string {
	var b strings.Builder
	n := len(bucket.Occurrences)
	b.WriteString("Group ")
	if bucket.Group.ID != "" {
		b.WriteString(bucket.Group.ID + " ")
	}
	fmt.Fprintf(&b, "[%s] ", bucket.Group.Sequence())
	if n == 0 {
		b.WriteString("has no occurrences, its digits are listed in order.")
		return b.String()
	}
	fmt.Fprintf(&b, "appeared %d %s", n, plural(n, "time"))
	if a.Recent > 0 {
		fmt.Fprintf(&b, ", with %d recent %s", a.Recent, plural(a.Recent, "occurrence"))
	}
	if a.HighValue > 0 {
		fmt.Fprintf(&b, ". Found in %d high-value prize %s", a.HighValue, plural(a.HighValue, "slot"))
	}
	b.WriteString(".")
	return b.String()
}

func isHighValue(slot string) bool {
	slot = strings.TrimSpace(slot)
	for _, s := range HighValueSlots {
		if strings.EqualFold(slot, s) {
			return true
		}
	}
	return false
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
