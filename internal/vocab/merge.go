package vocab

import (
	"fmt"
	"log/slog"

	"github.com/chriscorrea/reviewdtm/internal/dtm"
)

// Merge unions term tables built from disjoint document sets.
//
// Every document of every input appears exactly once in the result; a
// document present in two inputs is ErrOverlappingDocuments. The columns
// are the union of the inputs' terms in a deterministic order: the first
// table's terms, then each later table's new terms, each group sorted. A
// cell keeps its original count where the originating table defined it and
// is 0 otherwise. Rows are re-sorted by document identifier so later joins
// on that identifier line up.
//
// Merge is label-agnostic: nothing in the result records which input a row
// or column came from. The inputs are not modified.
func Merge(tables ...*dtm.Table) (*dtm.Table, []string, error) {
	var ids []string
	origin := make(map[string]int)
	for i, t := range tables {
		if t == nil {
			continue
		}
		for _, id := range t.DocIDs() {
			if prev, ok := origin[id]; ok {
				return nil, nil, fmt.Errorf("%w: %q in tables %d and %d", ErrOverlappingDocuments, id, prev, i)
			}
			origin[id] = i
			ids = append(ids, id)
		}
	}

	merged := dtm.New(ids)
	columns := []string{}
	seen := make(map[string]struct{})
	for _, t := range tables {
		if t == nil {
			continue
		}
		var fresh []string
		for _, term := range t.Terms() {
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				fresh = append(fresh, term)
			}
		}
		columns = append(columns, fresh...)

		for _, id := range t.DocIDs() {
			for term, n := range t.Row(id) {
				merged.Add(id, term, n)
			}
		}
	}
	merged.SortRows()

	slog.Debug("Vocabularies merged", "tables", len(tables), "documents", merged.Len(), "terms", len(columns))
	return merged, columns, nil
}
