// Package record holds the data model: a Row is one record's attribute
// map, a RowSet is the whole collection that is persisted as one unit.
package record

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// IDKey is the name of the reserved attribute that identifies a row.
const IDKey = "id"

// Row is a mapping from attribute name to attribute value.
type Row map[string]string

// NewRow returns a row that only carries the given identifier.
func NewRow(id string) Row {
	return Row{IDKey: id}
}

// ID returns the identifier of the row, or an empty string if it has none.
func (r Row) ID() string {
	return r[IDKey]
}

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// Keys returns the attribute names of the row, sorted, with the
// identifier key first.
func (r Row) Keys() []string {
	keys := make([]string, 0, len(r))
	for key := range r {
		keys = append(keys, key)
	}
	SortKeys(keys)
	return keys
}

// SortKeys sorts attribute names alphabetically, but puts the identifier
// key first.
func SortKeys(keys []string) {
	slices.SortFunc(keys, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case a == IDKey:
			return -1
		case b == IDKey:
			return 1
		case a < b:
			return -1
		default:
			return 1
		}
	})
}
