// Package tokenize turns raw review text into bags of normalized terms.
//
// Normalization follows the usual text-mining chain, each step optional
// except the first two:
//  1. word tokenization (prose) and lower-casing
//  2. punctuation removal
//  3. numeral removal
//  4. stopword removal for the configured language
//  5. stemming (Snowball) for the configured language
//  6. minimum term length
//
// A Tokenizer holds no mutable state and is safe for concurrent use, so the
// per-class vocabulary builds can share one instance.
package tokenize

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/bbalet/stopwords"
	"github.com/jdkato/prose/v2"
	"github.com/kljensen/snowball"

	"github.com/chriscorrea/reviewdtm/internal/corpus"
	"github.com/chriscorrea/reviewdtm/internal/dtm"
)

// stopwordCodes maps the Snowball language names to the ISO 639-1 codes of the stopword lists
var stopwordCodes = map[string]string{
	"english":   "en",
	"spanish":   "es",
	"french":    "fr",
	"russian":   "ru",
	"swedish":   "sv",
	"norwegian": "no",
	"hungarian": "hu",
}

// Config controls term normalization.
type Config struct {
	Language        string `yaml:"language" json:"language"`
	RemoveStopwords bool   `yaml:"remove_stopwords" json:"remove_stopwords"`
	RemoveNumbers   bool   `yaml:"remove_numbers" json:"remove_numbers"`
	StemWords       bool   `yaml:"stem_words" json:"stem_words"`
	MinLength       int    `yaml:"min_length" json:"min_length"` // in runes; terms shorter than this are dropped
}

// DefaultConfig matches the common document-term matrix defaults:
// English, all filters on, terms of at least three characters.
func DefaultConfig() Config {
	return Config{
		Language:        "english",
		RemoveStopwords: true,
		RemoveNumbers:   true,
		StemWords:       true,
		MinLength:       3,
	}
}

// Tokenizer applies a Config to text.
type Tokenizer struct {
	cfg          Config
	stopwordCode string
}

// New validates cfg and returns a Tokenizer.
func New(cfg Config) (*Tokenizer, error) {
	cfg.Language = strings.ToLower(strings.TrimSpace(cfg.Language))
	if cfg.Language == "" {
		cfg.Language = "english"
	}
	code, ok := stopwordCodes[cfg.Language]
	if !ok {
		return nil, fmt.Errorf("unsupported language %q", cfg.Language)
	}
	if cfg.MinLength < 0 {
		return nil, fmt.Errorf("negative minimum term length %d", cfg.MinLength)
	}
	return &Tokenizer{cfg: cfg, stopwordCode: code}, nil
}

// Config returns the normalized configuration in use.
func (t *Tokenizer) Config() Config {
	return t.cfg
}

// Tokenize returns the normalized terms of text in order of appearance.
func (t *Tokenizer) Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		// prose only fails on option errors; fall back to whitespace splitting
		slog.Debug("prose tokenization failed, splitting on whitespace", "error", err)
		return t.normalizeAll(strings.Fields(text))
	}

	raw := make([]string, 0, len(doc.Tokens()))
	for _, tok := range doc.Tokens() {
		raw = append(raw, tok.Text)
	}
	return t.normalizeAll(raw)
}

// Count returns the bag of terms of text.
func (t *Tokenizer) Count(text string) map[string]int {
	counts := make(map[string]int)
	for _, term := range t.Tokenize(text) {
		counts[term]++
	}
	return counts
}

// Table counts the terms of every document. Rows follow docs order and
// include documents without any surviving term.
func (t *Tokenizer) Table(docs []corpus.Document) *dtm.Table {
	table := dtm.New(corpus.IDs(docs))
	for _, d := range docs {
		for term, n := range t.Count(d.Text) {
			table.Add(d.ID, term, n)
		}
	}
	slog.Debug("Term table built", "documents", table.Len(), "terms", len(table.Terms()))
	return table
}

func (t *Tokenizer) normalizeAll(words []string) []string {
	terms := make([]string, 0, len(words))
	for _, w := range words {
		if term, ok := t.normalize(w); ok {
			terms = append(terms, term)
		}
	}
	return terms
}

// normalize runs one raw token through the filter chain.
func (t *Tokenizer) normalize(word string) (string, bool) {
	word = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r):
			return -1
		case t.cfg.RemoveNumbers && unicode.IsDigit(r):
			return -1
		}
		return unicode.ToLower(r)
	}, word)
	if word == "" {
		return "", false
	}

	hasLetter := strings.IndexFunc(word, unicode.IsLetter) >= 0
	if t.cfg.RemoveStopwords && hasLetter && t.isStopword(word) {
		return "", false
	}

	if t.cfg.StemWords && hasLetter {
		stemmed, err := snowball.Stem(word, t.cfg.Language, true)
		if err == nil && stemmed != "" {
			word = stemmed
		}
	}

	if len([]rune(word)) < t.cfg.MinLength {
		return "", false
	}
	return word, true
}

// isStopword reports whether the stopword list of the language removes word
func (t *Tokenizer) isStopword(word string) bool {
	return strings.TrimSpace(stopwords.CleanString(word, t.stopwordCode, false)) == ""
}
