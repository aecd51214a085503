// Package dtm provides the sparse term-document count table used throughout
// the feature pipeline.
//
// A Table records, for an ordered set of document identifiers, how many times
// each term occurs in each document. Only non-zero counts are stored: a
// missing (document, term) pair means the term does not occur in that
// document. The only way a Table becomes dense is through Densify, which
// defines every cell explicitly and resolves absent cells to exactly 0.
//
// Usage Example:
//
//	t := dtm.New([]string{"1", "2"})
//	t.Add("1", "good", 2)
//	rows := dtm.Densify(t, []string{"good", "bad"})
//	// rows == [][]float64{{2, 0}, {0, 0}}
package dtm

import (
	"sort"
	"strconv"
)

// Table is a sparse document-term count table.
type Table struct {
	ids    []string                  // row order
	index  map[string]int            // id -> position in ids
	counts map[string]map[string]int // id -> term -> count (non-zero only)
}

// New creates an empty table with one row per document id.
// Duplicate ids are collapsed to their first occurrence.
func New(ids []string) *Table {
	t := &Table{
		ids:    make([]string, 0, len(ids)),
		index:  make(map[string]int, len(ids)),
		counts: make(map[string]map[string]int, len(ids)),
	}
	for _, id := range ids {
		t.AddDocument(id)
	}
	return t
}

// AddDocument appends a row for id if the table does not already have one.
// It reports whether a new row was created.
func (t *Table) AddDocument(id string) bool {
	if _, ok := t.index[id]; ok {
		return false
	}
	t.index[id] = len(t.ids)
	t.ids = append(t.ids, id)
	return true
}

// Add increments the count of term in document id by n, creating the row if needed.
// Non-positive increments are ignored so the table never stores zero counts.
func (t *Table) Add(id, term string, n int) {
	if n <= 0 {
		return
	}
	t.AddDocument(id)
	row := t.counts[id]
	if row == nil {
		row = make(map[string]int)
		t.counts[id] = row
	}
	row[term] += n
}

// Count returns the occurrence count of term in document id (0 when absent).
func (t *Table) Count(id, term string) int {
	return t.counts[id][term]
}

// Has reports whether the table has a row for id.
func (t *Table) Has(id string) bool {
	_, ok := t.index[id]
	return ok
}

// Row returns a copy of the non-zero counts of document id.
func (t *Table) Row(id string) map[string]int {
	row := make(map[string]int, len(t.counts[id]))
	for term, n := range t.counts[id] {
		row[term] = n
	}
	return row
}

// DocIDs returns the row identifiers in table order.
func (t *Table) DocIDs() []string {
	out := make([]string, len(t.ids))
	copy(out, t.ids)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.ids)
}

// Terms returns every term with at least one non-zero count, sorted.
func (t *Table) Terms() []string {
	seen := make(map[string]struct{})
	for _, row := range t.counts {
		for term := range row {
			seen[term] = struct{}{}
		}
	}
	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// DocumentFrequency returns, per term, the number of rows in which it occurs.
func (t *Table) DocumentFrequency() map[string]int {
	df := make(map[string]int)
	for _, row := range t.counts {
		for term := range row {
			df[term]++
		}
	}
	return df
}

// Restrict returns a new table with the same rows keeping only the given terms.
func (t *Table) Restrict(terms []string) *Table {
	keep := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		keep[term] = struct{}{}
	}
	out := New(t.ids)
	for id, row := range t.counts {
		for term, n := range row {
			if _, ok := keep[term]; ok {
				out.Add(id, term, n)
			}
		}
	}
	return out
}

// SortRows reorders the rows by CompareIDs and returns the table.
func (t *Table) SortRows() *Table {
	sort.SliceStable(t.ids, func(i, j int) bool {
		return CompareIDs(t.ids[i], t.ids[j]) < 0
	})
	for i, id := range t.ids {
		t.index[id] = i
	}
	return t
}

// Densify materializes the table over the given columns. It is the single
// fill-missing step of the pipeline: the result has one row per document in
// table order and one value per column, and any cell absent from the sparse
// table is exactly 0. The input table is not modified.
func Densify(t *Table, columns []string) [][]float64 {
	out := make([][]float64, len(t.ids))
	for i, id := range t.ids {
		row := make([]float64, len(columns))
		counts := t.counts[id]
		for j, col := range columns {
			row[j] = float64(counts[col])
		}
		out[i] = row
	}
	return out
}

// CompareIDs orders document identifiers: numerically when both parse as
// integers, lexically otherwise, with numeric ids sorting first.
func CompareIDs(a, b string) int {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		// "07" and "7" are equal numerically; fall back to lexical order
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Reindex returns a new table whose rows are exactly ids, in that order.
// Ids unknown to t get empty rows; rows of t not listed are left out.
func (t *Table) Reindex(ids []string) *Table {
	out := New(ids)
	for _, id := range out.ids {
		for term, n := range t.counts[id] {
			out.Add(id, term, n)
		}
	}
	return out
}
