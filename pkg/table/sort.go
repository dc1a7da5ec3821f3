package table

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is a sort direction
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortState is the current sort key and direction of a table
type SortState struct {
	Key       string
	Direction Direction
}

// Click applies a header click: a new key sorts ascending, the same key toggles direction
func (s *SortState) Click(key string) {
	if s.Key != key {
		s.Key = key
		s.Direction = Ascending
		return
	}
	if s.Direction == Ascending {
		s.Direction = Descending
	} else {
		s.Direction = Ascending
	}
}

// Indicator returns the arrow shown next to a column header
func (s SortState) Indicator(key string) string {
	if key != s.Key {
		return ""
	}
	if s.Direction == Descending {
		return "▼"
	}
	return "▲"
}

// Sort returns a sorted copy of the full row set. Strings compare with English
// collation, numbers numerically, and absent values come last in either direction.
// Equal rows keep their input order. An unknown or unsortable key returns the rows unchanged.
func Sort[T any](rows []T, cols Columns[T], state SortState) []T {
	out := slices.Clone(rows)
	col, ok := cols.Get(state.Key)
	if !ok || !col.Sortable || col.Value == nil {
		return out
	}

	collator := collate.New(language.English)
	slices.SortStableFunc(out, func(a, b T) int {
		va, vb := col.Value(a), col.Value(b)
		switch {
		case va.IsAbsent() && vb.IsAbsent():
			return 0
		case va.IsAbsent():
			return 1
		case vb.IsAbsent():
			return -1
		}

		c := compareValues(collator, va, vb)
		if state.Direction == Descending {
			return -c
		}
		return c
	})
	return out
}

// compareValues orders two present values; numbers sort before strings
func compareValues(collator *collate.Collator, a, b Value) int {
	switch {
	case a.kind == kindNumber && b.kind == kindNumber:
		return cmp.Compare(a.n, b.n)
	case a.kind == kindString && b.kind == kindString:
		return collator.CompareString(a.s, b.s)
	case a.kind == kindNumber:
		return -1
	default:
		return 1
	}
}
