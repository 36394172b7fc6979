package pattern

import "fmt"

// Table is the closed set of digit groups known to the engine.
type Table struct {
	groups []Group
	byKey  map[string]int
	// byDigit[d] lists the positions of every group containing d.
	byDigit [10][]int
}

// NewTable validates groups and builds a table. Group keys must be unique.
func NewTable(groups ...Group) (*Table, error) {
	if len(groups) == 0 {
		return nil, ErrNoGroups
	}
	t := &Table{
		groups: make([]Group, 0, len(groups)),
		byKey:  make(map[string]int, len(groups)),
	}
	for _, g := range groups {
		if err := g.Validate(); err != nil {
			return nil, err
		}
		key := g.Key()
		if _, dup := t.byKey[key]; dup {
			return nil, fmt.Errorf("group %q: %w", key, ErrDuplicateGroup)
		}
		pos := len(t.groups)
		t.byKey[key] = pos
		t.groups = append(t.groups, g.clone())
		for _, d := range g.Digits {
			t.byDigit[d] = append(t.byDigit[d], pos)
		}
	}
	return t, nil
}

// DefaultGroups returns the nine groups used by the historical analyzer.
func DefaultGroups() []Group {
	return []Group{
		{ID: "pattern1", Digits: []int{0, 1}},
		{ID: "pattern2", Digits: []int{0, 4, 5}},
		{ID: "pattern3", Digits: []int{0, 4, 8}},
		{ID: "pattern4", Digits: []int{0, 8}},
		{ID: "pattern5", Digits: []int{5, 8}},
		{ID: "pattern6", Digits: []int{1, 3, 5, 7, 9}},
		{ID: "pattern7", Digits: []int{1, 3, 7, 9}},
		{ID: "pattern8", Digits: []int{2, 6, 8}},
		{ID: "pattern9", Digits: []int{3, 6}},
	}
}

// Default returns a table over DefaultGroups.
func Default() *Table {
	t, err := NewTable(DefaultGroups()...)
	if err != nil {
		panic(err) // DefaultGroups is static and valid
	}
	return t
}

// Len returns the number of groups.
func (t *Table) Len() int { return len(t.groups) }

// Groups returns a copy of every group in table order.
func (t *Table) Groups() []Group {
	out := make([]Group, len(t.groups))
	for i, g := range t.groups {
		out[i] = g.clone()
	}
	return out
}

// Lookup returns the group stored under key.
func (t *Table) Lookup(key string) (Group, bool) {
	pos, ok := t.byKey[key]
	if !ok {
		return Group{}, false
	}
	return t.groups[pos].clone(), true
}

// Position returns the table position of key, or -1.
func (t *Table) Position(key string) int {
	if pos, ok := t.byKey[key]; ok {
		return pos
	}
	return -1
}

// Containing returns every group whose digit set contains d, in table order.
// There is no precedence between the returned groups.
func (t *Table) Containing(d int) []Group {
	if d < 0 || d > 9 {
		return nil
	}
	positions := t.byDigit[d]
	out := make([]Group, len(positions))
	for i, pos := range positions {
		out[i] = t.groups[pos].clone()
	}
	return out
}
