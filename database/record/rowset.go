package record

import (
	"fmt"

	"github.com/mitchellh/copystructure"
)

// RowSet is an unordered collection of rows without duplicate
// identifiers. Its natural order is the order the rows are stored in.
type RowSet []Row

// Clone returns a deep copy of the row set. A nil set is cloned into an
// empty one.
func (rows RowSet) Clone() RowSet {
	if len(rows) == 0 {
		return RowSet{}
	}
	return copystructure.Must(copystructure.Copy(rows)).(RowSet)
}

// Find returns the row with the given identifier and its position, or nil
// and -1 if there is none.
func (rows RowSet) Find(id string) (Row, int) {
	for i, row := range rows {
		if row != nil && row.ID() == id {
			return row, i
		}
	}
	return nil, -1
}

// IDs returns the identifiers of all rows in natural order.
func (rows RowSet) IDs() []string {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID())
	}
	return ids
}

// Merge returns a copy of the set where every given row replaces the row
// with the same identifier, or is appended if there is none.
func (rows RowSet) Merge(delta RowSet) RowSet {
	merged := rows.Clone()
	for _, row := range delta {
		if row == nil {
			continue
		}
		if _, i := merged.Find(row.ID()); i >= 0 {
			merged[i] = row.Clone()
			continue
		}
		merged = append(merged, row.Clone())
	}
	return merged
}

// Keys returns the union of all attribute names in the set, sorted, with
// the identifier key first.
func (rows RowSet) Keys() []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for key := range row {
			seen[key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	SortKeys(keys)
	return keys
}

// Validate checks that every row has a non-empty identifier, that
// identifiers are unique and that no attribute name is empty.
func (rows RowSet) Validate() error {
	seen := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		if row == nil {
			return fmt.Errorf("%w: row #%d is nil", ErrInvalidRow, i)
		}
		id := row.ID()
		if id == "" {
			return fmt.Errorf("%w: row #%d has no %q attribute", ErrInvalidRow, i, IDKey)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate %s=%q", ErrInvalidRow, IDKey, id)
		}
		seen[id] = struct{}{}
		if _, ok := row[""]; ok {
			return fmt.Errorf("%w: row %s=%q has an empty attribute name", ErrInvalidRow, IDKey, id)
		}
	}
	return nil
}

// Equal reports whether both sets contain the same rows, ignoring order.
func (rows RowSet) Equal(other RowSet) bool {
	if len(rows) != len(other) {
		return false
	}
	for _, row := range rows {
		match, _ := other.Find(row.ID())
		if match == nil || len(match) != len(row) {
			return false
		}
		for key, value := range row {
			if v, ok := match[key]; !ok || v != value {
				return false
			}
		}
	}
	return true
}
