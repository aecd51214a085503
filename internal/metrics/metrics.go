// Package metrics defines the Prometheus collectors that record countable
// discrepancies of a pipeline run and writes them in text exposition format.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors of one run, registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	DocumentsRead      *prometheus.CounterVec
	VocabularySize     *prometheus.GaugeVec
	JoinRowsDropped    *prometheus.CounterVec
	ProjectionColumns  *prometheus.GaugeVec
	MatrixRows         *prometheus.GaugeVec
	MatrixColumns      prometheus.Gauge
	StageDuration      *prometheus.HistogramVec
	PredictedPositives prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		DocumentsRead: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reviewdtm_documents_read_total",
				Help: "Documents read per split (train, eval).",
			},
			[]string{"split"},
		),
		VocabularySize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "reviewdtm_vocabulary_terms",
				Help: "Terms retained per vocabulary (class label, eval, merged).",
			},
			[]string{"vocabulary"},
		),
		JoinRowsDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reviewdtm_join_rows_dropped_total",
				Help: "Documents dropped by the id join, by split and side (terms, metadata).",
			},
			[]string{"split", "side"},
		),
		ProjectionColumns: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "reviewdtm_projection_columns",
				Help: "Evaluation columns reconciled with the training schema (added, dropped).",
			},
			[]string{"action"},
		),
		MatrixRows: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "reviewdtm_matrix_rows",
				Help: "Rows of the final feature matrix per split.",
			},
			[]string{"split"},
		),
		MatrixColumns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "reviewdtm_schema_columns",
				Help: "Columns of the training schema.",
			},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reviewdtm_stage_duration_seconds",
				Help:    "Wall time per pipeline stage.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
			},
			[]string{"stage"},
		),
		PredictedPositives: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "reviewdtm_predicted_positive",
				Help: "Evaluation documents classified as the positive class.",
			},
		),
	}

	m.registry.MustRegister(
		m.DocumentsRead,
		m.VocabularySize,
		m.JoinRowsDropped,
		m.ProjectionColumns,
		m.MatrixRows,
		m.MatrixColumns,
		m.StageDuration,
		m.PredictedPositives,
	)

	return m
}

// ClassVocabulary records the vocabulary size of one class.
func (m *Metrics) ClassVocabulary(label, terms int) {
	m.VocabularySize.WithLabelValues("class_" + strconv.Itoa(label)).Set(float64(terms))
}

// JoinDropped records the rows a join dropped on each side.
func (m *Metrics) JoinDropped(split string, termRows, metadataRows int) {
	m.JoinRowsDropped.WithLabelValues(split, "terms").Add(float64(termRows))
	m.JoinRowsDropped.WithLabelValues(split, "metadata").Add(float64(metadataRows))
}

// Projection records how many evaluation columns were zero-filled and discarded.
func (m *Metrics) Projection(added, dropped int) {
	m.ProjectionColumns.WithLabelValues("added").Set(float64(added))
	m.ProjectionColumns.WithLabelValues("dropped").Set(float64(dropped))
}

// WriteTextfile writes every collected metric to path in the Prometheus
// text format, for pickup by a node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
