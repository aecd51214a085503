package app

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/chriscorrea/reviewdtm/internal/matrix"
)

func (p *pipeline) writeMatrix(res *Result, name string, m *matrix.Matrix) error {
	path := filepath.Join(p.cfg.OutDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if err := matrix.WriteCSV(f, m, p.cfg.Columns.ID, p.cfg.Columns.Label); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	res.Files = append(res.Files, path)
	return nil
}

// writePredictions writes id, probability, predicted class and, when the
// evaluation corpus is labeled, the true label.
func (p *pipeline) writePredictions(res *Result, m *matrix.Matrix, probs []float64, predicted []int) error {
	path := filepath.Join(p.cfg.OutDir, PredictionsFile)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", PredictionsFile, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{p.cfg.Columns.ID, "probability", "predicted"}
	if m.Labels != nil {
		header = append(header, p.cfg.Columns.Label)
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, id := range m.IDs {
		record := []string{id, strconv.FormatFloat(probs[i], 'f', 6, 64), strconv.Itoa(predicted[i])}
		if m.Labels != nil {
			record = append(record, strconv.Itoa(m.Labels[i]))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", PredictionsFile, err)
	}
	res.Files = append(res.Files, path)
	return nil
}
