// Package config loads the run configuration from a YAML file with
// environment-variable overrides and validates it. Command-line flags are
// applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chriscorrea/reviewdtm/internal/counter"
	"github.com/chriscorrea/reviewdtm/internal/model"
	"github.com/chriscorrea/reviewdtm/internal/tokenize"
	"github.com/chriscorrea/reviewdtm/internal/vocab"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete description of one run.
type Config struct {
	Train       string `yaml:"train"`
	Eval        string `yaml:"eval"`
	OutDir      string `yaml:"out_dir"`
	Artifact    string `yaml:"artifact"` // project eval onto a saved schema instead of training
	MetricsFile string `yaml:"metrics_file"`

	Columns    ColumnsConfig    `yaml:"columns"`
	Computed   []string         `yaml:"computed_features"`
	Tokenizer  tokenize.Config  `yaml:"tokenizer"`
	Vocabulary VocabularyConfig `yaml:"vocabulary"`
	Model      ModelConfig      `yaml:"model"`
}

// ColumnsConfig names the corpus CSV columns.
type ColumnsConfig struct {
	ID             string   `yaml:"id"`
	Text           string   `yaml:"text"`
	Label          string   `yaml:"label"`
	Aggregates     []string `yaml:"aggregates"`
	StripHTML      bool     `yaml:"strip_html"`
	StripFurniture bool     `yaml:"strip_furniture"` // drop "Report abuse" style interface text
}

// VocabularyConfig holds the sparsity thresholds: one per class label for
// training, one for the evaluation corpus.
type VocabularyConfig struct {
	Thresholds    map[int]float64 `yaml:"thresholds"`
	EvalThreshold float64         `yaml:"eval_threshold"`
}

// ModelConfig controls the baseline classifier.
type ModelConfig struct {
	Train    bool                 `yaml:"train"`
	Cutoff   float64              `yaml:"cutoff"`
	Logistic model.LogisticConfig `yaml:"logistic"`

	// ExplicitCutoff is set when Cutoff came from the file, the environment
	// or a flag rather than the default. Artifact runs otherwise classify
	// with the cut-off saved at training time.
	ExplicitCutoff bool `yaml:"-"`
}

// cutoffFile detects whether a config file sets model.cutoff at all.
type cutoffFile struct {
	Model struct {
		Cutoff *float64 `yaml:"cutoff"`
	} `yaml:"model"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		OutDir: "out",
		Columns: ColumnsConfig{
			ID:    "id",
			Text:  "text",
			Label: "label",
		},
		Tokenizer: tokenize.DefaultConfig(),
		Vocabulary: VocabularyConfig{
			Thresholds:    map[int]float64{0: 0.95, 1: 0.95},
			EvalThreshold: 0.99,
		},
		Model: ModelConfig{
			Cutoff:   0.5,
			Logistic: model.DefaultLogisticConfig(),
		},
	}
}

// Load reads a YAML config file (if provided) over the defaults and applies
// environment-variable overrides. The result is not validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		// thresholds in the file replace the defaults instead of merging into them
		defaults := cfg.Vocabulary.Thresholds
		cfg.Vocabulary.Thresholds = nil
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		if cfg.Vocabulary.Thresholds == nil {
			cfg.Vocabulary.Thresholds = defaults
		}
		var cf cutoffFile
		if err := yaml.Unmarshal(data, &cf); err == nil && cf.Model.Cutoff != nil {
			cfg.Model.ExplicitCutoff = true
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("REVIEWDTM_TRAIN"); v != "" {
		cfg.Train = v
	}
	if v := os.Getenv("REVIEWDTM_EVAL"); v != "" {
		cfg.Eval = v
	}
	if v := os.Getenv("REVIEWDTM_OUT_DIR"); v != "" {
		cfg.OutDir = v
	}
	if v := os.Getenv("REVIEWDTM_METRICS_FILE"); v != "" {
		cfg.MetricsFile = v
	}
	if v := os.Getenv("REVIEWDTM_CUTOFF"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: REVIEWDTM_CUTOFF=%q: %v", ErrInvalidConfig, v, err)
		}
		cfg.Model.Cutoff = f
		cfg.Model.ExplicitCutoff = true
	}
	return nil
}

// SetThreshold applies one sparsity threshold to every training class.
func (c *Config) SetThreshold(th float64) {
	for label := range c.Vocabulary.Thresholds {
		c.Vocabulary.Thresholds[label] = th
	}
	if len(c.Vocabulary.Thresholds) == 0 {
		c.Vocabulary.Thresholds = map[int]float64{0: th, 1: th}
	}
}

// Thresholds returns the validated per-class thresholds.
func (c *Config) Thresholds() map[int]vocab.Threshold {
	out := make(map[int]vocab.Threshold, len(c.Vocabulary.Thresholds))
	for label, th := range c.Vocabulary.Thresholds {
		out[label] = vocab.Threshold(th)
	}
	return out
}

// ComputedFeatures parses the computed length feature names.
func (c *Config) ComputedFeatures() ([]counter.CountingMethod, error) {
	out := make([]counter.CountingMethod, 0, len(c.Computed))
	for _, name := range c.Computed {
		m, err := counter.ParseFeature(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// Validate checks the configuration for the requested mode: training runs
// need a training corpus and per-class thresholds; artifact runs need an
// evaluation corpus.
func (c *Config) Validate() error {
	var problems []string

	if c.Artifact == "" {
		if c.Train == "" {
			problems = append(problems, "a training corpus is required")
		}
		if len(c.Vocabulary.Thresholds) == 0 {
			problems = append(problems, "at least one class threshold is required")
		}
		for label, th := range c.Vocabulary.Thresholds {
			if label != 0 && label != 1 {
				problems = append(problems, fmt.Sprintf("threshold for non-binary class %d", label))
			}
			if err := vocab.Threshold(th).Validate(); err != nil {
				problems = append(problems, fmt.Sprintf("class %d: %v", label, err))
			}
		}
	} else if c.Eval == "" {
		problems = append(problems, "an evaluation corpus is required with an artifact")
	}
	if c.Eval != "" {
		if err := vocab.Threshold(c.Vocabulary.EvalThreshold).Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("eval: %v", err))
		}
	}
	if c.OutDir == "" {
		problems = append(problems, "an output directory is required")
	}
	if c.Columns.ID == "" || c.Columns.Text == "" || c.Columns.Label == "" {
		problems = append(problems, "id, text and label column names are required")
	}
	if c.Model.Cutoff <= 0 || c.Model.Cutoff >= 1 {
		problems = append(problems, fmt.Sprintf("cutoff %g outside (0,1)", c.Model.Cutoff))
	}
	if _, err := c.ComputedFeatures(); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := tokenize.New(c.Tokenizer); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
