package source

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/drawscope/internal/domain/model"
)

// DefaultDateLayouts are tried in order when no layouts are configured.
// Day and month take one or two digits, so both 5-1-2024 and 05-01-2024 parse.
var DefaultDateLayouts = []string{
	"2006-1-2",
	"2-1-2006",
	"2/1/2006",
	"2006/1/2",
	time.RFC3339,
}

// DateParser parses draw dates against an ordered list of layouts.
type DateParser struct {
	layouts []string
}

// NewDateParser creates a parser over layouts, or DefaultDateLayouts when
// none are given. Blank layouts are ignored.
func NewDateParser(layouts ...string) *DateParser {
	p := &DateParser{}
	for _, l := range layouts {
		if strings.TrimSpace(l) != "" {
			p.layouts = append(p.layouts, l)
		}
	}
	if len(p.layouts) == 0 {
		p.layouts = append(p.layouts, DefaultDateLayouts...)
	}
	return p
}

// Layouts returns the layouts in the order they are tried.
func (p *DateParser) Layouts() []string {
	return append([]string(nil), p.layouts...)
}

// Parse returns the civil date of s at UTC midnight using the first layout
// that accepts it.
func (p *DateParser) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date: %w", ErrInvalidDate)
	}
	for _, layout := range p.layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.CivilDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q: %w", s, ErrInvalidDate)
}
