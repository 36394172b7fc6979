package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/okian/drawscope/internal/domain/model"
)

// Keys recognised inside a day object. Slot containers are tried in order.
var (
	dateKeys      = []string{"date", "day", "d"}
	slotContainer = []string{"prizes", "slots", "results", "result"}
)

// FileSource loads a JSON dataset from disk.
type FileSource struct {
	path string
	opts options
}

var _ Source = (*FileSource)(nil)

// NewFileSource creates a source reading the JSON file at path.
func NewFileSource(path string, opts ...Option) *FileSource {
	return &FileSource{path: path, opts: newOptions(opts)}
}

// Name returns the file path.
func (s *FileSource) Name() string { return "json:" + s.path }

// Load reads and decodes the whole file.
func (s *FileSource) Load(ctx context.Context) (Dataset, error) {
	if err := ctx.Err(); err != nil {
		return Dataset{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	f, err := os.Open(s.path)
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()

	ds, err := decode(f, s.opts.parser)
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: %s: %w", ErrLoad, s.path, err)
	}
	return ds, nil
}

// DecodeJSON decodes a dataset in any of the supported shapes:
//
//   - an array of day objects carrying a date under "date", "day" or "d"
//     and slots under "prizes", "results" or "result" (slot -> value),
//     under "slots" (array of {slot|name, number}), or as the remaining keys;
//   - an object keyed by date whose values are slot objects.
//
// Slot values may be strings, numbers or arrays of those. Slot order
// follows the document.
func DecodeJSON(r io.Reader, opts ...Option) (Dataset, error) {
	o := newOptions(opts)
	return decode(r, o.parser)
}

func decode(r io.Reader, parser *DateParser) (Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Dataset{}, err
	}
	c := &collector{parser: parser}

	switch kind(data) {
	case '[':
		var days []json.RawMessage
		if err := json.Unmarshal(data, &days); err != nil {
			return Dataset{}, err
		}
		for _, day := range days {
			if kind(day) != '{' {
				c.out.Skipped++
				continue
			}
			label, slots, err := dayObject(day)
			if err != nil {
				return Dataset{}, err
			}
			c.add(label, slots)
		}
	case '{':
		days, err := objectMembers(data)
		if err != nil {
			return Dataset{}, err
		}
		for _, day := range days {
			var slots []model.Slot
			if kind(day.value) == '{' {
				members, err := objectMembers(day.value)
				if err != nil {
					return Dataset{}, err
				}
				slots = flatSlots(members, nil)
			}
			c.add(day.key, slots)
		}
	default:
		return Dataset{}, ErrUnsupportedShape
	}
	return c.out, nil
}

func dayObject(raw json.RawMessage) (string, []model.Slot, error) {
	members, err := objectMembers(raw)
	if err != nil {
		return "", nil, err
	}
	byKey := make(map[string]json.RawMessage, len(members))
	for _, m := range members {
		if _, dup := byKey[m.key]; !dup {
			byKey[m.key] = m.value
		}
	}

	var label string
	for _, k := range dateKeys {
		if v, ok := byKey[k]; ok {
			if vals := values(v); len(vals) == 1 {
				label = vals[0]
				break
			}
		}
	}

	for _, k := range slotContainer {
		v, ok := byKey[k]
		if !ok {
			continue
		}
		if k == "slots" && kind(v) == '[' {
			slots, err := arraySlots(v)
			return label, slots, err
		}
		if kind(v) == '{' {
			return objectSlots(label, v)
		}
	}
	return label, flatSlots(members, dateKeys), nil
}

func objectSlots(label string, raw json.RawMessage) (string, []model.Slot, error) {
	members, err := objectMembers(raw)
	if err != nil {
		return "", nil, err
	}
	return label, flatSlots(members, nil), nil
}

func arraySlots(raw json.RawMessage) ([]model.Slot, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	var b slotBuilder
	for _, item := range items {
		if kind(item) != '{' {
			continue
		}
		var entry struct {
			Slot   json.RawMessage `json:"slot"`
			Name   json.RawMessage `json:"name"`
			Number json.RawMessage `json:"number"`
		}
		if err := json.Unmarshal(item, &entry); err != nil {
			return nil, err
		}
		id := first(values(entry.Slot))
		if id == "" {
			id = first(values(entry.Name))
		}
		b.add(id, values(entry.Number))
	}
	return b.slots, nil
}

func flatSlots(members []member, skip []string) []model.Slot {
	var b slotBuilder
	for _, m := range members {
		if contains(skip, m.key) {
			continue
		}
		b.add(m.key, values(m.value))
	}
	return b.slots
}

// slotBuilder accumulates slots in first-seen order, merging repeated ids.
type slotBuilder struct {
	slots []model.Slot
	index map[string]int
}

func (b *slotBuilder) add(id string, numbers []string) {
	if len(numbers) == 0 {
		return
	}
	if b.index == nil {
		b.index = make(map[string]int)
	}
	if pos, ok := b.index[id]; ok {
		b.slots[pos].Numbers = append(b.slots[pos].Numbers, numbers...)
		return
	}
	b.index[id] = len(b.slots)
	b.slots = append(b.slots, model.Slot{ID: id, Numbers: numbers})
}

type member struct {
	key   string
	value json.RawMessage
}

// objectMembers decodes a JSON object keeping its key order.
func objectMembers(raw json.RawMessage) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object: %w", ErrUnsupportedShape)
	}
	var out []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v: %w", tok, ErrUnsupportedShape)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, member{key: key, value: v})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}

// values flattens a slot value into number strings. Strings and numbers
// are kept as written; nulls, booleans, objects and nested arrays are dropped.
func values(raw json.RawMessage) []string {
	switch k := kind(raw); {
	case k == '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
		var out []string
		for _, item := range items {
			if kind(item) == '[' {
				continue
			}
			out = append(out, values(item)...)
		}
		return out
	case k == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		return []string{s}
	case k == '-' || (k >= '0' && k <= '9'):
		return []string{string(bytes.TrimSpace(raw))}
	default:
		return nil
	}
}

func kind(raw []byte) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func first(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// WriteJSON writes records as an array of {"date", "result"} day objects,
// keeping slot order. Dates use layout, or the record label when layout is
// empty. A slot with one number is written as a string, otherwise as an array.
func WriteJSON(w io.Writer, records []model.Record, layout string) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("[")
	for i, r := range records {
		if i > 0 {
			bw.WriteString(",")
		}
		label := r.Label
		if layout != "" {
			label = r.Date.Format(layout)
		}
		bw.WriteString("\n  {\"date\": ")
		if err := writeValue(bw, label); err != nil {
			return err
		}
		bw.WriteString(", \"result\": {")
		for j, slot := range r.Slots {
			if j > 0 {
				bw.WriteString(", ")
			}
			if err := writeValue(bw, slot.ID); err != nil {
				return err
			}
			bw.WriteString(": ")
			var v any = slot.Numbers
			if len(slot.Numbers) == 1 {
				v = slot.Numbers[0]
			}
			if err := writeValue(bw, v); err != nil {
				return err
			}
		}
		bw.WriteString("}}")
	}
	if len(records) > 0 {
		bw.WriteString("\n")
	}
	bw.WriteString("]\n")
	return bw.Flush()
}

func writeValue(w *bufio.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
