package matrix

import (
	"fmt"
)

// Matrix is a dense feature matrix: one row per document, one value per
// schema column. Identifiers and labels are kept beside the values and are
// never part of the columns submitted to a model.
type Matrix struct {
	Schema Schema
	IDs    []string
	Values [][]float64
	Labels []int // parallel to IDs; nil when the documents carry no labels
}

// Rows returns the number of documents.
func (m *Matrix) Rows() int {
	return len(m.IDs)
}

// Validate checks the shape invariants: one value per column in every row,
// and identifiers (and labels, when present) parallel to the rows.
func (m *Matrix) Validate() error {
	if len(m.Values) != len(m.IDs) {
		return fmt.Errorf("matrix has %d rows but %d ids", len(m.Values), len(m.IDs))
	}
	if m.Labels != nil && len(m.Labels) != len(m.IDs) {
		return fmt.Errorf("matrix has %d rows but %d labels", len(m.IDs), len(m.Labels))
	}
	for i, row := range m.Values {
		if len(row) != m.Schema.Len() {
			return fmt.Errorf("row %q has %d values, schema has %d columns", m.IDs[i], len(row), m.Schema.Len())
		}
	}
	for i, l := range m.Labels {
		if l != 0 && l != 1 {
			return fmt.Errorf("row %q has non-binary label %d", m.IDs[i], l)
		}
	}
	return nil
}

// Conforms returns ErrSchemaMismatch unless m has exactly the columns of s, in order.
func (m *Matrix) Conforms(s Schema) error {
	if m.Schema.Equal(s) {
		return nil
	}
	missing, extra := m.Schema.Diff(s)
	return fmt.Errorf("%w: %d missing, %d extra (missing=%v extra=%v)",
		ErrSchemaMismatch, len(missing), len(extra), head(missing), head(extra))
}

// head keeps error messages short for wide schemas
func head(cols []string) []string {
	const max = 5
	if len(cols) > max {
		return cols[:max]
	}
	return cols
}
