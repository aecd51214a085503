package model

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/chriscorrea/reviewdtm/internal/matrix"
	"github.com/chriscorrea/reviewdtm/internal/tokenize"
)

// Artifact is the persisted outcome of a training run. The schema always
// travels with the model so evaluation data can be projected onto it later.
type Artifact struct {
	RunID         string          `json:"run_id"`
	CreatedAt     time.Time       `json:"created_at"`
	Schema        matrix.Schema   `json:"schema"`
	IDColumn      string          `json:"id_column"` // reserved with LabelColumn when naming term columns
	LabelColumn   string          `json:"label_column"`
	Aggregates    []string        `json:"aggregates"`
	Computed      []string        `json:"computed_features"`
	Thresholds    map[int]float64 `json:"thresholds"`
	EvalThreshold float64         `json:"eval_threshold"`
	Tokenizer     tokenize.Config `json:"tokenizer"`
	Cutoff        float64         `json:"cutoff"`
	Logistic      *LogisticState  `json:"logistic,omitempty"`
}

// NewRunID returns a fresh, time-ordered run identifier.
func NewRunID() string {
	return ulid.MustNew(ulid.Now(), ulid.Monotonic(rand.Reader, 0)).String()
}

// Guard rebuilds the schema-checked model stored in the artifact.
func (a *Artifact) Guard() (*Guard, error) {
	if a.Logistic == nil {
		return nil, fmt.Errorf("artifact %s: %w", a.RunID, ErrNotTrained)
	}
	if len(a.Logistic.Weights) != a.Schema.Len() {
		return nil, fmt.Errorf("artifact %s: %d weights for %d schema columns: %w",
			a.RunID, len(a.Logistic.Weights), a.Schema.Len(), matrix.ErrSchemaMismatch)
	}
	l, err := LogisticFromState(*a.Logistic)
	if err != nil {
		return nil, err
	}
	return NewGuard(l, a.Schema), nil
}

// Save writes the artifact as indented JSON.
func (a *Artifact) Save(path string) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	return nil
}

// LoadArtifact reads an artifact written by Save.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode artifact %s: %w", path, err)
	}
	if _, err := ulid.Parse(a.RunID); err != nil {
		return nil, fmt.Errorf("artifact %s has invalid run id %q: %w", path, a.RunID, err)
	}
	return &a, nil
}
