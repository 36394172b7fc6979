// Package scoring groups occurrences by digit group and turns each group's
// history into a ranked list of predicted trailing digits.
package scoring

import (
	"github.com/okian/drawscope/internal/domain/model"
	"github.com/okian/drawscope/internal/domain/pattern"
)

// Bucket holds the occurrences whose last digit belongs to Group.
type Bucket struct {
	Group       pattern.Group
	Occurrences []model.Occurrence
}

// Buckets is the per-query aggregation keyed by group key.
type Buckets struct {
	table *pattern.Table
	byKey map[string]*Bucket
}

// Aggregate appends every occurrence to the bucket of each group containing
// its last digit. Buckets are created lazily; insertion order follows the
// occurrence order.
func Aggregate(table *pattern.Table, occurrences []model.Occurrence) *Buckets {
	b := &Buckets{table: table, byKey: make(map[string]*Bucket)}
	for _, o := range occurrences {
		for _, g := range table.Containing(o.LastDigit) {
			key := g.Key()
			bucket, ok := b.byKey[key]
			if !ok {
				bucket = &Bucket{Group: g}
				b.byKey[key] = bucket
			}
			bucket.Occurrences = append(bucket.Occurrences, o)
		}
	}
	return b
}

// Get returns the bucket for key, if any occurrence landed in it.
func (b *Buckets) Get(key string) (*Bucket, bool) {
	bucket, ok := b.byKey[key]
	return bucket, ok
}

// Len returns the number of non-empty buckets.
func (b *Buckets) Len() int { return len(b.byKey) }

// All returns the non-empty buckets in table order.
func (b *Buckets) All() []*Bucket {
	out := make([]*Bucket, 0, len(b.byKey))
	for _, g := range b.table.Groups() {
		if bucket, ok := b.byKey[g.Key()]; ok {
			out = append(out, bucket)
		}
	}
	return out
}

// Complete returns one bucket per table group in table order, with an empty
// bucket for groups that saw no occurrence.
func (b *Buckets) Complete() []*Bucket {
	groups := b.table.Groups()
	out := make([]*Bucket, 0, len(groups))
	for _, g := range groups {
		if bucket, ok := b.byKey[g.Key()]; ok {
			out = append(out, bucket)
			continue
		}
		out = append(out, &Bucket{Group: g})
	}
	return out
}
