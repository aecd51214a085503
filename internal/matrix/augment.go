package matrix

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/chriscorrea/reviewdtm/internal/dtm"
	"github.com/chriscorrea/reviewdtm/internal/features"
)

// collisionSuffix renames a term that shares its name with an aggregate feature
const collisionSuffix = "_term"

// JoinReport counts the documents lost by the inner join in Augment.
// Both counts are zero in a well-formed pipeline.
type JoinReport struct {
	Joined              int
	DroppedTermRows     int // term-table rows without metadata
	DroppedMetadataRows int // metadata rows without a term-table row
}

// Dropped returns the total number of documents dropped on either side.
func (r JoinReport) Dropped() int {
	return r.DroppedTermRows + r.DroppedMetadataRows
}

// TermColumns returns the column names termCols take next to the reserved
// names: the aggregate feature names plus any output column names such as
// the id and label headers. A term equal to a reserved name is suffixed
// with "_term" until it no longer matches one. The renaming depends on the
// reserved names only, so training and evaluation terms map identically.
func TermColumns(reserved, termCols []string) []string {
	isReserved := make(map[string]bool, len(reserved))
	for _, r := range reserved {
		if r != "" {
			isReserved[r] = true
		}
	}

	out := make([]string, len(termCols))
	for i, t := range termCols {
		name := t
		for isReserved[name] {
			name += collisionSuffix
		}
		out[i] = name
	}
	return out
}

// Augment joins a term table with document metadata on the document id.
//
// The schema is the metadata's aggregate feature names followed by the term
// columns (see TermColumns); outputNames are column names the matrix will be
// written next to (id and label headers) and are kept free of terms. Only documents present on both sides are kept;
// the losses are returned in the JoinReport and logged. Term cells the
// sparse table does not define are 0, and this is the only source of missing
// term values: a term table never encodes an unknown count, only an absent
// (zero) one. Missing aggregates are likewise 0. Rows are ordered by
// dtm.CompareIDs. Labels are taken from the metadata, never from the term
// table, and are kept only when every joined document is labeled.
func Augment(terms *dtm.Table, termCols []string, meta *features.Table, outputNames ...string) (*Matrix, JoinReport, error) {
	aggregates := meta.Names()
	reserved := append(append([]string{}, aggregates...), outputNames...)
	schema, err := NewSchema(append(aggregates, TermColumns(reserved, termCols)...))
	if err != nil {
		return nil, JoinReport{}, fmt.Errorf("failed to build schema: %w", err)
	}

	var report JoinReport
	var joined []string
	for _, id := range terms.DocIDs() {
		if _, ok := meta.Get(id); ok {
			joined = append(joined, id)
		} else {
			report.DroppedTermRows++
		}
	}
	for _, id := range meta.IDs() {
		if !terms.Has(id) {
			report.DroppedMetadataRows++
		}
	}
	sort.SliceStable(joined, func(i, j int) bool {
		return dtm.CompareIDs(joined[i], joined[j]) < 0
	})
	report.Joined = len(joined)

	termValues := dtm.Densify(terms.Reindex(joined), termCols)

	m := &Matrix{
		Schema: schema,
		IDs:    joined,
		Values: make([][]float64, len(joined)),
	}
	labeled := true
	labels := make([]int, len(joined))
	for i, id := range joined {
		row, _ := meta.Get(id)
		values := make([]float64, 0, schema.Len())
		for _, name := range aggregates {
			values = append(values, row.Value(name))
		}
		values = append(values, termValues[i]...)
		m.Values[i] = values

		labels[i] = row.Label
		labeled = labeled && row.Labeled
	}
	if labeled && len(joined) > 0 {
		m.Labels = labels
	}

	if report.Dropped() > 0 {
		slog.Warn("Documents dropped joining terms with metadata",
			"droppedTermRows", report.DroppedTermRows,
			"droppedMetadataRows", report.DroppedMetadataRows,
			"joined", report.Joined)
	}
	slog.Debug("Feature matrix augmented", "rows", m.Rows(), "aggregates", len(aggregates), "terms", len(termCols))
	return m, report, nil
}
