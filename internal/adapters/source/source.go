// Package source loads draw records from external datasets.
package source

import (
	"context"

	"github.com/okian/drawscope/internal/domain/model"
)

// Dataset is the outcome of one load.
type Dataset struct {
	Records []model.Record
	Skipped int      // entries dropped for a missing or unparseable date
	Invalid []string // labels of the skipped entries, in source order
}

// Source loads a dataset.
type Source interface {
	// Load reads the whole dataset. Errors wrap ErrLoad.
	Load(ctx context.Context) (Dataset, error)
	// Name identifies the source in logs and statistics.
	Name() string
}

// Option applies a configuration option to a source.
type Option func(*options)

type options struct {
	parser *DateParser
	table  string
}

func newOptions(opts []Option) options {
	o := options{table: DefaultTable}
	for _, opt := range opts {
		opt(&o)
	}
	if o.parser == nil {
		o.parser = NewDateParser()
	}
	return o
}

// WithDateLayouts sets the layouts tried when parsing draw dates.
func WithDateLayouts(layouts ...string) Option {
	return func(o *options) {
		if len(layouts) > 0 {
			o.parser = NewDateParser(layouts...)
		}
	}
}

// WithDateParser sets the date parser.
func WithDateParser(p *DateParser) Option {
	return func(o *options) {
		if p != nil {
			o.parser = p
		}
	}
}

// WithTable sets the SQLite table holding draw rows.
func WithTable(name string) Option {
	return func(o *options) {
		if name != "" {
			o.table = name
		}
	}
}

// collector turns raw day entries into records, counting unparseable dates.
type collector struct {
	parser *DateParser
	out    Dataset
}

func (c *collector) add(label string, slots []model.Slot) {
	date, err := c.parser.Parse(label)
	if err != nil {
		c.out.Skipped++
		c.out.Invalid = append(c.out.Invalid, label)
		return
	}
	c.out.Records = append(c.out.Records, model.Record{Date: date, Label: label, Slots: slots})
}
