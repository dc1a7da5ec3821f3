package table

import (
	"fmt"
	"strings"
)

type valueKind int

const (
	kindAbsent valueKind = iota
	kindNumber
	kindString
)

// Value is the sort key of one cell: a string, a number, or absent
type Value struct {
	kind valueKind
	s    string
	n    float64
}

// Absent is the value of a missing cell. Absent values sort last in both directions.
var Absent = Value{}

// String returns a string sort value. Blank strings are absent.
func String(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Absent
	}
	return Value{kind: kindString, s: s}
}

// Number returns a numeric sort value
func Number(n float64) Value {
	return Value{kind: kindNumber, n: n}
}

// IsAbsent reports whether the cell has no value
func (v Value) IsAbsent() bool {
	return v.kind == kindAbsent
}

// Column describes one table column over rows of type T
type Column[T any] struct {
	Key      string
	Label    string
	Tooltip  string
	Sortable bool

	// Value returns the sort key of the cell
	Value func(T) Value

	// Format returns the display text of the cell
	Format func(T) string
}

// Columns is a column set with lookup by key
type Columns[T any] struct {
	order []Column[T]
	byKey map[string]Column[T]
}

// NewColumns builds a column set, preserving the given order
func NewColumns[T any](cols ...Column[T]) Columns[T] {
	c := Columns[T]{byKey: make(map[string]Column[T], len(cols))}
	for _, col := range cols {
		c.order = append(c.order, col)
		c.byKey[col.Key] = col
	}
	return c
}

// Get returns the column with the given key
func (c Columns[T]) Get(key string) (Column[T], bool) {
	col, ok := c.byKey[key]
	return col, ok
}

// Keys lists the column keys in definition order
func (c Columns[T]) Keys() []string {
	keys := make([]string, 0, len(c.order))
	for _, col := range c.order {
		keys = append(keys, col.Key)
	}
	return keys
}

// SelectColumns returns the visible columns for the given keys, in the order given
func SelectColumns[T any](cols Columns[T], keys []string) ([]Column[T], error) {
	visible := make([]Column[T], 0, len(keys))
	for _, key := range keys {
		col, ok := cols.Get(key)
		if !ok {
			return nil, fmt.Errorf("unknown column %q (valid: %s)", key, strings.Join(cols.Keys(), ", "))
		}
		visible = append(visible, col)
	}
	return visible, nil
}
