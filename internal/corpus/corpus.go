// Package corpus reads labeled review documents from CSV sources.
//
// Each row carries a document identifier, the raw review text, an optional
// binary class label and any number of precomputed numeric aggregate
// features (length, sentiment summaries, lexicon counts). Column names are
// configured by the caller through Columns.
package corpus

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/chriscorrea/reviewdtm/internal/boilerplate"
	"github.com/chriscorrea/reviewdtm/internal/extract"
	"github.com/chriscorrea/reviewdtm/internal/fetch"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrInvalidLabel  = errors.New("invalid label")
	ErrDuplicateID   = errors.New("duplicate document id")
)

// Document is a single review.
type Document struct {
	ID       string
	Text     string
	Label    int  // 0 or 1; meaningful only when Labeled
	Labeled  bool // false for evaluation rows without a label column
	Features map[string]float64
}

// Columns names the CSV columns of a corpus source.
type Columns struct {
	ID         string   // document identifier column
	Text       string   // raw review text column
	Label      string   // binary label column
	Aggregates []string // precomputed numeric feature columns, in schema order

	// LabelOptional accepts sources without a label column (evaluation splits).
	LabelOptional bool
	// StripHTML reduces review text to its visible text before storing it.
	StripHTML bool
	// StripFurniture drops scraped page furniture ("Was this review helpful?")
	// from review text, after StripHTML.
	StripFurniture bool
}

// Load opens source and reads its documents.
func Load(ctx context.Context, source string, cols Columns) ([]Document, error) {
	r, err := fetch.Open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	docs, err := Read(r, cols)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus %q: %w", source, err)
	}
	slog.Debug("Corpus loaded", "source", source, "documents", len(docs))
	return docs, nil
}

// Read parses CSV documents from r. The first record is the header.
func Read(r io.Reader, cols Columns) ([]Document, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input has no header", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	idCol, err := column(pos, cols.ID)
	if err != nil {
		return nil, err
	}
	textCol, err := column(pos, cols.Text)
	if err != nil {
		return nil, err
	}
	labelCol := -1
	if c, err := column(pos, cols.Label); err == nil {
		labelCol = c
	} else if !cols.LabelOptional {
		return nil, err
	}
	aggCols := make([]int, len(cols.Aggregates))
	for i, name := range cols.Aggregates {
		c, err := column(pos, name)
		if err != nil {
			return nil, err
		}
		aggCols[i] = c
	}

	var docs []Document
	seen := make(map[string]int)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		doc, err := parseRecord(record, idCol, textCol, labelCol, aggCols, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if prev, ok := seen[doc.ID]; ok {
			return nil, fmt.Errorf("line %d: %w %q (first seen on line %d)", line, ErrDuplicateID, doc.ID, prev)
		}
		seen[doc.ID] = line
		docs = append(docs, doc)
	}

	return docs, nil
}

func parseRecord(record []string, idCol, textCol, labelCol int, aggCols []int, cols Columns) (Document, error) {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return record[i]
	}

	doc := Document{
		ID:       strings.TrimSpace(field(idCol)),
		Text:     field(textCol),
		Features: make(map[string]float64, len(aggCols)),
	}
	if doc.ID == "" {
		return Document{}, fmt.Errorf("empty %s", cols.ID)
	}

	if cols.StripHTML {
		text, err := extract.PlainText(doc.Text)
		if err != nil {
			return Document{}, fmt.Errorf("document %q: %w", doc.ID, err)
		}
		doc.Text = text
	}
	if cols.StripFurniture {
		doc.Text = boilerplate.Strip(doc.Text)
	}

	if labelCol >= 0 {
		label, err := ParseLabel(field(labelCol))
		if err != nil {
			return Document{}, fmt.Errorf("document %q: %w", doc.ID, err)
		}
		doc.Label = label
		doc.Labeled = true
	}

	for i, c := range aggCols {
		raw := strings.TrimSpace(field(c))
		if raw == "" || strings.EqualFold(raw, "NA") {
			// unavailable aggregate; materialized as 0 like any absent cell
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Document{}, fmt.Errorf("document %q: column %q: %w", doc.ID, cols.Aggregates[i], err)
		}
		doc.Features[cols.Aggregates[i]] = v
	}

	return doc, nil
}

// ParseLabel accepts the binary labels 0 and 1 (also written as false/true).
func ParseLabel(raw string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "0", "false":
		return 0, nil
	case "1", "true":
		return 1, nil
	default:
		return 0, fmt.Errorf("%w %q: want 0 or 1", ErrInvalidLabel, raw)
	}
}

func column(pos map[string]int, name string) (int, error) {
	if name == "" {
		return -1, fmt.Errorf("%w: no column name configured", ErrMissingColumn)
	}
	i, ok := pos[name]
	if !ok {
		return -1, fmt.Errorf("%w %q", ErrMissingColumn, name)
	}
	return i, nil
}

// ByLabel partitions labeled documents by class, preserving input order.
// Unlabeled documents are skipped.
func ByLabel(docs []Document) map[int][]Document {
	out := make(map[int][]Document)
	for _, d := range docs {
		if !d.Labeled {
			continue
		}
		out[d.Label] = append(out[d.Label], d)
	}
	return out
}

// IDs returns the identifiers of docs in order.
func IDs(docs []Document) []string {
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids
}
