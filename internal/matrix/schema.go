// Package matrix materializes dense, model-facing feature matrices and keeps
// evaluation matrices aligned with the training schema.
//
// The training schema is computed once per run and is the sole authority on
// the columns of every matrix handed to a model. Augment joins a term table
// with document metadata into a matrix; Project reindexes any matrix onto a
// reference schema, zero-filling absent columns and discarding extra ones.
package matrix

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrDuplicateColumn = errors.New("duplicate schema column")
	ErrSchemaMismatch  = errors.New("matrix columns do not match schema")
)

// Schema is an ordered list of unique column names. The zero value is the empty schema.
type Schema struct {
	cols  []string
	index map[string]int
}

// NewSchema validates that cols are unique and non-empty.
func NewSchema(cols []string) (Schema, error) {
	s := Schema{
		cols:  make([]string, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if c == "" {
			return Schema{}, fmt.Errorf("empty column name at position %d", i)
		}
		if prev, ok := s.index[c]; ok {
			return Schema{}, fmt.Errorf("%w %q at positions %d and %d", ErrDuplicateColumn, c, prev, i)
		}
		s.index[c] = i
		s.cols[i] = c
	}
	return s, nil
}

// Columns returns a copy of the column names in order.
func (s Schema) Columns() []string {
	out := make([]string, len(s.cols))
	copy(out, s.cols)
	return out
}

// Len returns the number of columns.
func (s Schema) Len() int {
	return len(s.cols)
}

// Index returns the position of column name.
func (s Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Contains reports whether name is a column of s.
func (s Schema) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Equal reports whether both schemas have the same columns in the same order.
func (s Schema) Equal(o Schema) bool {
	if len(s.cols) != len(o.cols) {
		return false
	}
	for i := range s.cols {
		if s.cols[i] != o.cols[i] {
			return false
		}
	}
	return true
}

// Diff returns the columns of want missing from s and the columns of s absent from want.
func (s Schema) Diff(want Schema) (missing, extra []string) {
	for _, c := range want.cols {
		if !s.Contains(c) {
			missing = append(missing, c)
		}
	}
	for _, c := range s.cols {
		if !want.Contains(c) {
			extra = append(extra, c)
		}
	}
	return missing, extra
}

// MarshalJSON encodes the schema as a JSON array of column names.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s.cols == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.cols)
}

// UnmarshalJSON decodes a JSON array and validates it.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var cols []string
	if err := json.Unmarshal(data, &cols); err != nil {
		return err
	}
	parsed, err := NewSchema(cols)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
