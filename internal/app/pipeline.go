package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chriscorrea/reviewdtm/internal/dtm"
	"github.com/chriscorrea/reviewdtm/internal/features"
	"github.com/chriscorrea/reviewdtm/internal/matrix"
	"github.com/chriscorrea/reviewdtm/internal/model"
	"github.com/chriscorrea/reviewdtm/internal/vocab"
)

// train builds the training matrix: one vocabulary per class, merged into a
// single term table and joined with the document metadata. The returned
// artifact records everything needed to rebuild the evaluation side.
func (p *pipeline) train(ctx context.Context, res *Result) (*model.Artifact, *matrix.Matrix, error) {
	cfg := p.cfg

	tok, err := newTokenizer(cfg.Tokenizer)
	if err != nil {
		return nil, nil, err
	}
	computed, err := cfg.ComputedFeatures()
	if err != nil {
		return nil, nil, err
	}

	docs, err := p.load(ctx, "train", cfg.Train, p.columns(false))
	if err != nil {
		return nil, nil, err
	}
	meta, err := features.FromDocuments(docs, cfg.Columns.Aggregates, computed)
	if err != nil {
		return nil, nil, err
	}

	done := p.rep.Stage("vocabulary", "Building class vocabularies")
	thresholds := cfg.Thresholds()
	byClass, err := vocab.BuildByClass(ctx, tok, docs, thresholds)
	done()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build vocabularies: %w", err)
	}

	// merge in ascending class order so the column order is reproducible
	classes := vocab.Classes(byClass)
	tables := make([]*dtm.Table, 0, len(classes))
	res.ClassTerms = make(map[int]int, len(classes))
	for _, class := range classes {
		t := byClass[class]
		tables = append(tables, t)
		n := len(t.Terms())
		res.ClassTerms[class] = n
		p.metrics.ClassVocabulary(class, n)
		slog.Info("Class vocabulary built", "class", class, "documents", t.Len(), "terms", n)
	}
	merged, termCols, err := vocab.Merge(tables...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to merge vocabularies: %w", err)
	}
	p.metrics.VocabularySize.WithLabelValues("merged").Set(float64(len(termCols)))

	train, report, err := matrix.Augment(merged, termCols, meta, cfg.Columns.ID, cfg.Columns.Label)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to augment training matrix: %w", err)
	}
	res.TrainJoin = report
	p.metrics.JoinDropped("train", report.DroppedTermRows, report.DroppedMetadataRows)
	if train.Rows() > 0 && train.Labels == nil {
		return nil, nil, fmt.Errorf("training matrix has unlabeled documents")
	}
	p.metrics.MatrixRows.WithLabelValues("train").Set(float64(train.Rows()))
	p.metrics.MatrixColumns.Set(float64(train.Schema.Len()))

	artifact := &model.Artifact{
		RunID:         model.NewRunID(),
		CreatedAt:     time.Now().UTC(),
		Schema:        train.Schema,
		IDColumn:      cfg.Columns.ID,
		LabelColumn:   cfg.Columns.Label,
		Aggregates:    cfg.Columns.Aggregates,
		Computed:      featureNames(computed),
		Thresholds:    thresholdsOf(thresholds),
		EvalThreshold: cfg.Vocabulary.EvalThreshold,
		Tokenizer:     tok.Config(),
		Cutoff:        cfg.Model.Cutoff,
	}
	return artifact, train, nil
}

// evaluate builds the evaluation matrix from its own vocabulary and projects
// it onto the artifact's schema. Evaluation labels are read for the output
// but never influence which terms are counted.
func (p *pipeline) evaluate(ctx context.Context, res *Result, a *model.Artifact) (*matrix.Matrix, error) {
	tok, err := newTokenizer(a.Tokenizer)
	if err != nil {
		return nil, err
	}
	computed, err := parseComputed(a.Computed)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", a.RunID, err)
	}

	cols := p.columns(true)
	cols.Aggregates = a.Aggregates
	docs, err := p.load(ctx, "eval", p.cfg.Eval, cols)
	if err != nil {
		return nil, err
	}
	meta, err := features.FromDocuments(docs, a.Aggregates, computed)
	if err != nil {
		return nil, err
	}

	done := p.rep.Stage("eval_vocabulary", "Building evaluation vocabulary")
	terms, err := vocab.Build(tok, docs, vocab.Threshold(a.EvalThreshold))
	done()
	if err != nil {
		return nil, fmt.Errorf("failed to build evaluation vocabulary: %w", err)
	}
	termCols := terms.Terms()
	p.metrics.VocabularySize.WithLabelValues("eval").Set(float64(len(termCols)))

	raw, report, err := matrix.Augment(terms, termCols, meta, a.IDColumn, a.LabelColumn)
	if err != nil {
		return nil, fmt.Errorf("failed to augment evaluation matrix: %w", err)
	}
	res.EvalJoin = report
	p.metrics.JoinDropped("eval", report.DroppedTermRows, report.DroppedMetadataRows)

	eval, projection := matrix.ProjectWithReport(raw, a.Schema)
	res.Projection = projection
	p.metrics.Projection(len(projection.Added), len(projection.Dropped))
	if len(projection.Dropped) > 0 {
		slog.Warn("Evaluation-only terms discarded", "columns", len(projection.Dropped))
	}
	if err := eval.Conforms(a.Schema); err != nil {
		return nil, err
	}
	p.metrics.MatrixRows.WithLabelValues("eval").Set(float64(eval.Rows()))
	slog.Info("Evaluation matrix aligned",
		"rows", eval.Rows(),
		"zeroFilled", len(projection.Added),
		"discarded", len(projection.Dropped))
	return eval, nil
}

// fit trains the baseline model on the training matrix and stores its
// parameters in the artifact.
func (p *pipeline) fit(train *matrix.Matrix, a *model.Artifact) (*model.Guard, error) {
	done := p.rep.Stage("train_model", "Training baseline model")
	defer done()

	l := model.NewLogistic(p.cfg.Model.Logistic)
	guard := model.NewGuard(l, train.Schema)
	if err := guard.Train(train); err != nil {
		return nil, fmt.Errorf("failed to train model: %w", err)
	}
	a.Logistic = l.State()
	return guard, nil
}
