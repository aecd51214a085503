package matrix

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV writes m with a header row: idColumn, the schema columns, and
// labelColumn when m carries labels. Header names must not clash with schema columns.
func WriteCSV(w io.Writer, m *Matrix, idColumn, labelColumn string) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.Schema.Contains(idColumn) {
		return fmt.Errorf("%w: id column %q is also a feature", ErrDuplicateColumn, idColumn)
	}
	withLabel := m.Labels != nil
	if withLabel && (m.Schema.Contains(labelColumn) || labelColumn == idColumn) {
		return fmt.Errorf("%w: label column %q is also a feature", ErrDuplicateColumn, labelColumn)
	}

	cw := csv.NewWriter(w)
	header := append([]string{idColumn}, m.Schema.Columns()...)
	if withLabel {
		header = append(header, labelColumn)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for i, id := range m.IDs {
		record[0] = id
		for j, v := range m.Values[i] {
			record[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if withLabel {
			record[len(record)-1] = strconv.Itoa(m.Labels[i])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
