// Package app contains the pipeline of the reviewdtm CLI tool: it reads the
// training and evaluation corpora, builds the class-conditional term matrix,
// aligns the evaluation matrix with it and writes the results.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chriscorrea/reviewdtm/internal/config"
	"github.com/chriscorrea/reviewdtm/internal/corpus"
	"github.com/chriscorrea/reviewdtm/internal/counter"
	"github.com/chriscorrea/reviewdtm/internal/matrix"
	"github.com/chriscorrea/reviewdtm/internal/metrics"
	"github.com/chriscorrea/reviewdtm/internal/model"
	"github.com/chriscorrea/reviewdtm/internal/progress"
	"github.com/chriscorrea/reviewdtm/internal/tokenize"
	"github.com/chriscorrea/reviewdtm/internal/vocab"
)

// Output file names inside the output directory.
const (
	TrainMatrixFile = "train_matrix.csv"
	EvalMatrixFile  = "eval_matrix.csv"
	ArtifactFile    = "schema.json"
	PredictionsFile = "predictions.csv"
)

// Result summarizes a run.
type Result struct {
	RunID       string
	Train       *matrix.Matrix // nil when projecting onto a saved artifact
	Eval        *matrix.Matrix // nil without an evaluation corpus
	ClassTerms  map[int]int    // retained vocabulary size per class
	TrainJoin   matrix.JoinReport
	EvalJoin    matrix.JoinReport
	Projection  matrix.ProjectionReport
	Predictions []float64
	Cutoff      float64 // cut-off applied to Predictions
	Files       []string // written files, in order
}

// Run executes one pipeline run with the given configuration.
//
// Processing Pipeline:
// 1. Build the training matrix, or load the schema of a saved artifact
// 2. Build the evaluation matrix and project it onto the training schema
// 3. Optionally train the baseline model and score the evaluation matrix
// 4. Write matrices, artifact and metrics
//
// rep may be nil. ctx allows cancellation between and inside stages.
func Run(ctx context.Context, cfg *config.Config, rep *progress.Reporter) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rep == nil {
		rep = progress.New(ctx, os.Stderr, false)
	}

	m := metrics.New()
	rep.OnStage(func(stage string, elapsed time.Duration) {
		m.StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
		slog.Debug("Stage finished", "stage", stage, "elapsed", elapsed)
	})

	p := &pipeline{cfg: cfg, rep: rep, metrics: m}
	res := &Result{}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	// step 1: training matrix or saved schema
	var artifact *model.Artifact
	var guard *model.Guard
	if cfg.Artifact != "" {
		a, err := model.LoadArtifact(cfg.Artifact)
		if err != nil {
			return nil, err
		}
		artifact = a
		if a.Logistic != nil {
			if guard, err = a.Guard(); err != nil {
				return nil, err
			}
		}
		slog.Info("Projecting onto saved schema", "runID", a.RunID, "columns", a.Schema.Len())
	} else {
		a, train, err := p.train(ctx, res)
		if err != nil {
			return nil, err
		}
		artifact = a
		res.Train = train
		if err := p.writeMatrix(res, TrainMatrixFile, train); err != nil {
			return nil, err
		}
		if cfg.Model.Train {
			if guard, err = p.fit(train, artifact); err != nil {
				return nil, err
			}
		}
	}
	res.RunID = artifact.RunID

	// step 2: evaluation matrix aligned with the schema
	if cfg.Eval != "" {
		eval, err := p.evaluate(ctx, res, artifact)
		if err != nil {
			return nil, err
		}
		res.Eval = eval
		if err := p.writeMatrix(res, EvalMatrixFile, eval); err != nil {
			return nil, err
		}

		// step 3: score the evaluation matrix
		if guard != nil {
			probs, err := guard.Predict(eval)
			if err != nil {
				return nil, fmt.Errorf("failed to score evaluation matrix: %w", err)
			}
			res.Predictions = probs
			res.Cutoff = cutoff(cfg, artifact)
			predicted := model.Classify(probs, res.Cutoff)
			positives := 0
			for _, c := range predicted {
				positives += c
			}
			m.PredictedPositives.Set(float64(positives))
			if err := p.writePredictions(res, eval, probs, predicted); err != nil {
				return nil, err
			}
		}
	}

	// step 4: artifact and metrics
	if cfg.Artifact == "" {
		path := filepath.Join(cfg.OutDir, ArtifactFile)
		if err := artifact.Save(path); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)
	}
	if cfg.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			return nil, fmt.Errorf("failed to write metrics: %w", err)
		}
		res.Files = append(res.Files, cfg.MetricsFile)
	}

	return res, nil
}

// pipeline carries the per-run collaborators through the stages.
type pipeline struct {
	cfg     *config.Config
	rep     *progress.Reporter
	metrics *metrics.Metrics
}

func (p *pipeline) columns(labelOptional bool) corpus.Columns {
	c := p.cfg.Columns
	return corpus.Columns{
		ID:             c.ID,
		Text:           c.Text,
		Label:          c.Label,
		Aggregates:     c.Aggregates,
		LabelOptional:  labelOptional,
		StripHTML:      c.StripHTML,
		StripFurniture: c.StripFurniture,
	}
}

// load reads one split and counts its documents.
func (p *pipeline) load(ctx context.Context, split, source string, cols corpus.Columns) ([]corpus.Document, error) {
	done := p.rep.Stage("load_"+split, fmt.Sprintf("Reading %s corpus", split))
	defer done()

	docs, err := corpus.Load(ctx, source, cols)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s corpus: %w", split, err)
	}
	p.metrics.DocumentsRead.WithLabelValues(split).Add(float64(len(docs)))
	slog.Info("Corpus loaded", "split", split, "documents", len(docs))
	return docs, nil
}

// cutoff is the configured cut-off, or the one saved with the artifact when
// projecting onto it and none was given explicitly.
func cutoff(cfg *config.Config, a *model.Artifact) float64 {
	if cfg.Artifact != "" && !cfg.Model.ExplicitCutoff && a.Cutoff > 0 && a.Cutoff < 1 {
		return a.Cutoff
	}
	return cfg.Model.Cutoff
}

func parseComputed(names []string) ([]counter.CountingMethod, error) {
	out := make([]counter.CountingMethod, 0, len(names))
	for _, name := range names {
		m, err := counter.ParseFeature(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func featureNames(methods []counter.CountingMethod) []string {
	out := make([]string, len(methods))
	for i, m := range methods {
		out[i] = m.FeatureName()
	}
	return out
}

func thresholdsOf(m map[int]vocab.Threshold) map[int]float64 {
	out := make(map[int]float64, len(m))
	for label, th := range m {
		out[label] = float64(th)
	}
	return out
}

func newTokenizer(cfg tokenize.Config) (*tokenize.Tokenizer, error) {
	tok, err := tokenize.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokenizer: %w", err)
	}
	return tok, nil
}
