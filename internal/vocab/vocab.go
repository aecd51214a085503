// Package vocab builds class-conditional vocabularies and merges them into
// one canonical term space.
//
// A sparsity threshold θ keeps a term when it occurs in at least a 1-θ
// fraction of the reference documents. Applied to a whole imbalanced corpus,
// a minority-class term would need a within-class frequency of about
// (1-θ)/classFraction to survive, so vocabularies are built once per class
// on that class's documents and merged afterwards.
package vocab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/chriscorrea/reviewdtm/internal/corpus"
	"github.com/chriscorrea/reviewdtm/internal/dtm"
)

var (
	ErrInvalidThreshold     = errors.New("sparsity threshold must lie in (0,1)")
	ErrOverlappingDocuments = errors.New("document appears in more than one table")
)

// fractionEpsilon absorbs float error in comparisons like 1/3 >= 1-0.6667
const fractionEpsilon = 1e-9

// Threshold is a sparsity threshold θ in (0,1).
type Threshold float64

// Validate reports whether θ lies in the open interval (0,1).
func (th Threshold) Validate() error {
	if !(th > 0 && th < 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, float64(th))
	}
	return nil
}

// MinDocFraction is the fraction of documents a term must occur in to be kept.
func (th Threshold) MinDocFraction() float64 {
	return 1 - float64(th)
}

// Tabulator counts the terms of a set of documents into a table with one
// row per document; *tokenize.Tokenizer satisfies it.
type Tabulator interface {
	Table(docs []corpus.Document) *dtm.Table
}

// Select returns the sorted terms of t whose document frequency fraction is
// at least th.MinDocFraction(). An empty table selects nothing.
func Select(t *dtm.Table, th Threshold) []string {
	n := t.Len()
	if n == 0 {
		return []string{}
	}
	minDocs := th.MinDocFraction() * float64(n)

	terms := []string{}
	for term, df := range t.DocumentFrequency() {
		if float64(df) >= minDocs-fractionEpsilon {
			terms = append(terms, term)
		}
	}
	sort.Strings(terms)
	return terms
}

// Build counts the terms of docs and keeps the vocabulary selected by θ.
// The result has one row per document (including documents left without any
// retained term) and exactly the retained vocabulary as columns. docs is
// expected to be pre-filtered to one class.
func Build(tab Tabulator, docs []corpus.Document, th Threshold) (*dtm.Table, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}

	full := tab.Table(docs)

	terms := Select(full, th)
	if len(terms) == 0 {
		slog.Warn("Sparsity threshold retained no terms", "documents", len(docs), "threshold", float64(th))
	}
	slog.Debug("Vocabulary selected", "documents", len(docs), "candidateTerms", len(full.Terms()), "retained", len(terms), "threshold", float64(th))
	return full.Restrict(terms), nil
}

// BuildByClass partitions labeled docs by class and builds each class's
// vocabulary table with its own threshold. The builds run concurrently and
// share nothing but the read-only tabulator. Every class named in thresholds
// gets a table, empty when the class has no documents; a document whose
// class has no threshold is an error.
func BuildByClass(ctx context.Context, tab Tabulator, docs []corpus.Document, thresholds map[int]Threshold) (map[int]*dtm.Table, error) {
	for class, th := range thresholds {
		if err := th.Validate(); err != nil {
			return nil, fmt.Errorf("class %d: %w", class, err)
		}
	}

	parts := corpus.ByLabel(docs)
	for class := range parts {
		if _, ok := thresholds[class]; !ok {
			return nil, fmt.Errorf("no sparsity threshold configured for class %d", class)
		}
	}

	var mu sync.Mutex
	out := make(map[int]*dtm.Table, len(thresholds))
	g, ctx := errgroup.WithContext(ctx)
	for class, th := range thresholds {
		class, th := class, th
		classDocs := parts[class]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if len(classDocs) == 0 {
				slog.Warn("Class has no documents; contributing an empty vocabulary", "class", class)
			}
			table, err := Build(tab, classDocs, th)
			if err != nil {
				return fmt.Errorf("class %d: %w", class, err)
			}
			mu.Lock()
			out[class] = table
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Classes returns the keys of a per-class map in ascending order.
func Classes[V any](m map[int]V) []int {
	classes := make([]int, 0, len(m))
	for c := range m {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	return classes
}
