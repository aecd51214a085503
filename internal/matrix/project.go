package matrix

import (
	"log/slog"
)

// ProjectionReport lists how a matrix's columns were reconciled with a schema.
type ProjectionReport struct {
	Added   []string // schema columns absent from the input, zero-filled
	Dropped []string // input columns absent from the schema, discarded
}

// Project reindexes m onto s; see ProjectWithReport.
func Project(m *Matrix, s Schema) *Matrix {
	out, _ := ProjectWithReport(m, s)
	return out
}

// ProjectWithReport returns a matrix with exactly the columns of s, in the
// order of s. Values come from m where m has the column; columns of s that m
// lacks are 0 in every row, and columns of m that s lacks are discarded. Row
// order, ids and labels are kept. An empty m yields zero rows with the
// columns of s. Projecting a matrix that already conforms to s returns an
// equal copy. m is not modified.
func ProjectWithReport(m *Matrix, s Schema) (*Matrix, ProjectionReport) {
	missing, extra := m.Schema.Diff(s)
	report := ProjectionReport{Added: missing, Dropped: extra}

	// source position of every target column, -1 when zero-filled
	src := make([]int, s.Len())
	for j, col := range s.cols {
		if i, ok := m.Schema.Index(col); ok {
			src[j] = i
		} else {
			src[j] = -1
		}
	}

	out := &Matrix{
		Schema: s,
		IDs:    append([]string{}, m.IDs...),
		Values: make([][]float64, len(m.Values)),
	}
	if m.Labels != nil {
		out.Labels = append([]int{}, m.Labels...)
	}
	for r, row := range m.Values {
		projected := make([]float64, s.Len())
		for j, i := range src {
			if i >= 0 {
				projected[j] = row[i]
			}
		}
		out.Values[r] = projected
	}

	if len(report.Dropped) > 0 || len(report.Added) > 0 {
		slog.Debug("Matrix projected onto schema",
			"rows", out.Rows(),
			"columns", s.Len(),
			"zeroFilled", len(report.Added),
			"discarded", len(report.Dropped))
	}
	return out, report
}
