package porter

import (
	"fmt"
	"strings"
)

// Column pairs an internal field key with the label used in files.
type Column struct {
	Key   string
	Label string
}

// ColumnMap is an ordered set of columns with unique keys.
// The zero value is an empty map.
type ColumnMap struct {
	cols []Column
}

// NewColumnMap builds a ColumnMap, rejecting empty or duplicate keys.
// Labels may repeat; the first key owning a label wins during import.
func NewColumnMap(cols ...Column) (ColumnMap, error) {
	seen := make(map[string]bool, len(cols))
	out := make([]Column, 0, len(cols))
	for _, c := range cols {
		key := strings.TrimSpace(c.Key)
		if key == "" {
			return ColumnMap{}, fmt.Errorf("%w: empty key for label %q", ErrInvalidColumns, c.Label)
		}
		if seen[key] {
			return ColumnMap{}, fmt.Errorf("%w: duplicate key %q", ErrInvalidColumns, key)
		}
		seen[key] = true
		out = append(out, Column{Key: key, Label: c.Label})
	}
	return ColumnMap{cols: out}, nil
}

// MustColumnMap builds a ColumnMap from alternating key, label arguments.
// It panics on an odd argument count or an invalid map, so it is meant for
// package-level declarations.
func MustColumnMap(pairs ...string) ColumnMap {
	if len(pairs)%2 != 0 {
		panic("porter: MustColumnMap needs key/label pairs")
	}
	cols := make([]Column, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		cols = append(cols, Column{Key: pairs[i], Label: pairs[i+1]})
	}
	m, err := NewColumnMap(cols...)
	if err != nil {
		panic(err)
	}
	return m
}

// Len returns the number of columns.
func (m ColumnMap) Len() int { return len(m.cols) }

// Columns returns a copy of the columns in order.
func (m ColumnMap) Columns() []Column {
	return append([]Column(nil), m.cols...)
}

// Keys returns the field keys in order.
func (m ColumnMap) Keys() []string {
	keys := make([]string, len(m.cols))
	for i, c := range m.cols {
		keys[i] = c.Key
	}
	return keys
}

// Labels returns the labels in order.
func (m ColumnMap) Labels() []string {
	labels := make([]string, len(m.cols))
	for i, c := range m.cols {
		labels[i] = c.Label
	}
	return labels
}

// Label returns the label for key.
func (m ColumnMap) Label(key string) (string, bool) {
	for _, c := range m.cols {
		if c.Key == key {
			return c.Label, true
		}
	}
	return "", false
}

func (m ColumnMap) keyForLabel(label string) (string, bool) {
	for _, c := range m.cols {
		if c.Label == label {
			return c.Key, true
		}
	}
	return "", false
}

// Bind maps field keys to header positions.
//
// Headers are trimmed and compared to labels exactly. A header repeated in
// the file rebinds its key to the later position. When no header matches and
// the header count equals the column count, keys are bound by position.
func (m ColumnMap) Bind(headers []string) map[string]int {
	idx := make(map[string]int, len(m.cols))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if key, ok := m.keyForLabel(h); ok {
			idx[key] = i
		}
	}

	if len(idx) == 0 && len(headers) == len(m.cols) {
		for i, c := range m.cols {
			idx[c.Key] = i
		}
	}
	return idx
}
