// Package features holds the per-document aggregate features that are joined
// with the term matrix: precomputed scalars supplied with the corpus
// (sentiment summaries, lexicon counts) and length measures computed here.
package features

import (
	"errors"
	"fmt"

	"github.com/chriscorrea/reviewdtm/internal/corpus"
	"github.com/chriscorrea/reviewdtm/internal/counter"
)

var ErrDuplicateFeature = errors.New("duplicate feature name")

// Row is the metadata of one document.
type Row struct {
	Label   int
	Labeled bool
	Values  map[string]float64 // absent names are unavailable and read as 0
}

// Table maps document ids to metadata rows over a fixed, ordered set of feature names.
type Table struct {
	names []string
	order []string
	rows  map[string]Row
}

// New creates an empty table; names must be unique.
func New(names []string) (*Table, error) {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n == "" {
			return nil, fmt.Errorf("empty feature name")
		}
		if _, ok := seen[n]; ok {
			return nil, fmt.Errorf("%w %q", ErrDuplicateFeature, n)
		}
		seen[n] = struct{}{}
	}
	out := make([]string, len(names))
	copy(out, names)
	return &Table{names: out, rows: make(map[string]Row)}, nil
}

// Set stores the row of document id, replacing any previous one.
func (t *Table) Set(id string, row Row) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	values := make(map[string]float64, len(row.Values))
	for k, v := range row.Values {
		values[k] = v
	}
	row.Values = values
	t.rows[id] = row
}

// Get returns the row of document id.
func (t *Table) Get(id string) (Row, bool) {
	row, ok := t.rows[id]
	return row, ok
}

// Names returns the feature names in schema order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// IDs returns the document ids in insertion order.
func (t *Table) IDs() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.order)
}

// Value returns the named feature of row, 0 when unavailable.
func (r Row) Value(name string) float64 {
	return r.Values[name]
}

// FromDocuments builds the metadata table of docs. The feature names are the
// precomputed aggregates (read from each document's Features) followed by
// the computed length measures.
func FromDocuments(docs []corpus.Document, aggregates []string, computed []counter.CountingMethod) (*Table, error) {
	names := append([]string{}, aggregates...)
	counters := make([]counter.Counter, len(computed))
	for i, method := range computed {
		c, err := counter.NewCounter(method)
		if err != nil {
			return nil, fmt.Errorf("length feature %s: %w", method.FeatureName(), err)
		}
		counters[i] = c
		names = append(names, method.FeatureName())
	}

	table, err := New(names)
	if err != nil {
		return nil, err
	}

	for _, d := range docs {
		values := make(map[string]float64, len(names))
		for _, name := range aggregates {
			if v, ok := d.Features[name]; ok {
				values[name] = v
			}
		}
		for i, c := range counters {
			values[computed[i].FeatureName()] = float64(c.Count(d.Text))
		}
		table.Set(d.ID, Row{Label: d.Label, Labeled: d.Labeled, Values: values})
	}
	return table, nil
}
