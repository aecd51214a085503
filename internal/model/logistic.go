package model

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"
)

// LogisticConfig controls gradient descent.
type LogisticConfig struct {
	LearningRate float64 `yaml:"learning_rate" json:"learning_rate"`
	Iterations   int     `yaml:"iterations" json:"iterations"`
	L2           float64 `yaml:"l2" json:"l2"`
	Tolerance    float64 `yaml:"tolerance" json:"tolerance"`
}

// DefaultLogisticConfig returns settings that converge on standardized count features.
func DefaultLogisticConfig() LogisticConfig {
	return LogisticConfig{
		LearningRate: 0.5,
		Iterations:   500,
		L2:           0.001,
		Tolerance:    1e-6,
	}
}

// LogisticState is the learned parameter set, suitable for persisting.
type LogisticState struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
	Mean    []float64 `json:"mean"`
	Scale   []float64 `json:"scale"`
}

// Logistic is an L2-regularized logistic regression trained by batch
// gradient descent on standardized features.
type Logistic struct {
	cfg   LogisticConfig
	state *LogisticState
}

// NewLogistic creates an untrained model.
func NewLogistic(cfg LogisticConfig) *Logistic {
	return &Logistic{cfg: cfg}
}

// LogisticFromState restores a trained model.
func LogisticFromState(s LogisticState) (*Logistic, error) {
	d := len(s.Weights)
	if len(s.Mean) != d || len(s.Scale) != d {
		return nil, fmt.Errorf("inconsistent logistic state: %d weights, %d means, %d scales", d, len(s.Mean), len(s.Scale))
	}
	return &Logistic{cfg: DefaultLogisticConfig(), state: &s}, nil
}

// State returns the learned parameters, or nil before training.
func (l *Logistic) State() *LogisticState {
	return l.state
}

// Train implements Model.
func (l *Logistic) Train(X [][]float64, y []int) error {
	n := len(X)
	if n == 0 {
		return fmt.Errorf("no training rows")
	}
	if len(y) != n {
		return fmt.Errorf("%d rows but %d labels", n, len(y))
	}
	d := len(X[0])
	if err := checkShape(X, d); err != nil {
		return err
	}
	if l.cfg.Iterations <= 0 || l.cfg.LearningRate <= 0 {
		return fmt.Errorf("invalid logistic config: iterations=%d learning_rate=%g", l.cfg.Iterations, l.cfg.LearningRate)
	}

	mean, scale := standardization(X, d)
	design := standardize(X, mean, scale)
	target := mat.NewVecDense(n, nil)
	for i, label := range y {
		if label != 0 && label != 1 {
			return fmt.Errorf("label %d at row %d is not binary", label, i)
		}
		target.SetVec(i, float64(label))
	}

	// a zero-width design is padded to one zero column; only the bias learns
	w := mat.NewVecDense(max(d, 1), nil)
	var bias float64
	z := mat.NewVecDense(n, nil)
	residual := mat.NewVecDense(n, nil)
	grad := mat.NewVecDense(w.Len(), nil)
	invN := 1 / float64(n)

	iter := 0
	for ; iter < l.cfg.Iterations; iter++ {
		z.MulVec(design, w)
		var sumResidual float64
		for i := 0; i < n; i++ {
			r := sigmoid(z.AtVec(i)+bias) - target.AtVec(i)
			residual.SetVec(i, r)
			sumResidual += r
		}
		grad.MulVec(design.T(), residual)
		grad.ScaleVec(invN, grad)
		grad.AddScaledVec(grad, l.cfg.L2, w)

		w.AddScaledVec(w, -l.cfg.LearningRate, grad)
		step := l.cfg.LearningRate * sumResidual * invN
		bias -= step

		if mat.Norm(grad, 2)+math.Abs(sumResidual*invN) < l.cfg.Tolerance {
			break
		}
	}
	slog.Debug("logistic model trained", "rows", n, "features", d, "iterations", iter)

	weights := make([]float64, d)
	for j := range weights {
		weights[j] = w.AtVec(j)
	}
	l.state = &LogisticState{Weights: weights, Bias: bias, Mean: mean, Scale: scale}
	return nil
}

// Predict implements Model.
func (l *Logistic) Predict(X [][]float64) ([]float64, error) {
	if l.state == nil {
		return nil, ErrNotTrained
	}
	d := len(l.state.Weights)
	if err := checkShape(X, d); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	if len(X) == 0 {
		return out, nil
	}
	if d == 0 {
		for i := range out {
			out[i] = sigmoid(l.state.Bias)
		}
		return out, nil
	}
	design := standardize(X, l.state.Mean, l.state.Scale)
	z := mat.NewVecDense(len(X), nil)
	z.MulVec(design, mat.NewVecDense(d, l.state.Weights))
	for i := range out {
		out[i] = sigmoid(z.AtVec(i) + l.state.Bias)
	}
	return out, nil
}

func standardization(X [][]float64, d int) (mean, scale []float64) {
	mean = make([]float64, d)
	scale = make([]float64, d)
	n := float64(len(X))
	for _, row := range X {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= n
	}
	for _, row := range X {
		for j, v := range row {
			diff := v - mean[j]
			scale[j] += diff * diff
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / n)
		if scale[j] == 0 {
			// constant column
			scale[j] = 1
		}
	}
	return mean, scale
}

func standardize(X [][]float64, mean, scale []float64) *mat.Dense {
	d := len(mean)
	data := make([]float64, 0, len(X)*d)
	for _, row := range X {
		for j, v := range row {
			data = append(data, (v-mean[j])/scale[j])
		}
	}
	if d == 0 {
		return mat.NewDense(len(X), 1, make([]float64, len(X)))
	}
	return mat.NewDense(len(X), d, data)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
