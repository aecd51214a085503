// Package model defines the opaque classifier contract used by the pipeline,
// a schema guard around it, and a logistic regression baseline.
package model

import (
	"errors"
	"fmt"

	"github.com/chriscorrea/reviewdtm/internal/matrix"
)

// ErrNotTrained is returned by Predict on a model that has not been trained.
var ErrNotTrained = errors.New("model is not trained")

// Model is a binary classifier over dense feature rows. Predict returns one
// probability of the positive class per row.
type Model interface {
	Train(X [][]float64, y []int) error
	Predict(X [][]float64) ([]float64, error)
}

// Guard binds a Model to the schema it was trained on and refuses any
// matrix whose columns differ.
type Guard struct {
	model  Model
	schema matrix.Schema
}

// NewGuard wraps m with the training schema s.
func NewGuard(m Model, s matrix.Schema) *Guard {
	return &Guard{model: m, schema: s}
}

// Train fits the model on a matrix that must carry labels and conform to the schema.
func (g *Guard) Train(m *matrix.Matrix) error {
	if err := m.Conforms(g.schema); err != nil {
		return err
	}
	if m.Labels == nil {
		return fmt.Errorf("training matrix has no labels")
	}
	return g.model.Train(m.Values, m.Labels)
}

// Predict scores m after checking it against the training schema.
// A schema mismatch is returned as matrix.ErrSchemaMismatch.
func (g *Guard) Predict(m *matrix.Matrix) ([]float64, error) {
	if err := m.Conforms(g.schema); err != nil {
		return nil, err
	}
	return g.model.Predict(m.Values)
}

// Classify maps probabilities to {0,1}: 1 when p >= cutoff.
func Classify(probs []float64, cutoff float64) []int {
	out := make([]int, len(probs))
	for i, p := range probs {
		if p >= cutoff {
			out[i] = 1
		}
	}
	return out
}

func checkShape(X [][]float64, width int) error {
	for i, row := range X {
		if len(row) != width {
			return fmt.Errorf("row %d has %d features, want %d", i, len(row), width)
		}
	}
	return nil
}
