// Package counter measures review length, the simplest of the aggregate
// document features.
//
// Three measures are available: tiktoken tokens (cl100k_base), whitespace
// separated words and Unicode characters. Each measure has a fixed feature
// column name (token_count, word_count, char_count) so it can be requested
// by name from configuration.
package counter

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Counter measures the length of a text in one unit.
type Counter interface {
	// Count returns the number of units (tokens, words, or characters) in text.
	Count(text string) int

	// Name returns a human-readable name for this counting method (for logging)
	Name() string
}

// CountingMethod selects a length measure.
type CountingMethod int

const (
	// Tokens uses tiktoken with cl100k_base encoding
	Tokens CountingMethod = iota
	// Words counts whitespace separated words
	Words
	// Characters counts runes, including whitespace
	Characters
)

// String returns the string representation of the counting method.
func (cm CountingMethod) String() string {
	switch cm {
	case Tokens:
		return "tokens"
	case Words:
		return "words"
	case Characters:
		return "characters"
	default:
		return "unknown"
	}
}

// FeatureName is the aggregate feature column produced by the method.
func (cm CountingMethod) FeatureName() string {
	switch cm {
	case Tokens:
		return "token_count"
	case Words:
		return "word_count"
	case Characters:
		return "char_count"
	default:
		return ""
	}
}

// ParseFeature maps a feature column name back to its counting method.
func ParseFeature(name string) (CountingMethod, error) {
	for _, cm := range []CountingMethod{Tokens, Words, Characters} {
		if cm.FeatureName() == strings.ToLower(strings.TrimSpace(name)) {
			return cm, nil
		}
	}
	return 0, fmt.Errorf("unknown length feature %q (want token_count, word_count or char_count)", name)
}

// NewCounter returns the Counter for method.
// Only token counting can fail, when the tiktoken encoding cannot be loaded.
func NewCounter(method CountingMethod) (Counter, error) {
	switch method {
	case Tokens:
		return NewTokenCounter()
	case Words:
		return NewWordCounter(), nil
	case Characters:
		return NewCharCounter(), nil
	default:
		return nil, fmt.Errorf("unknown counting method %d", int(method))
	}
}

// WordCounter counts whitespace separated words.
type WordCounter struct{}

// NewWordCounter creates a new WordCounter instance.
func NewWordCounter() Counter {
	return &WordCounter{}
}

// Count returns the number of words in text.
func (wc *WordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

// Name returns the name of this counting method for logging and debugging.
func (wc *WordCounter) Name() string {
	return "words"
}

// CharCounter counts Unicode characters (runes), not bytes.
type CharCounter struct{}

// NewCharCounter creates a new CharCounter instance.
func NewCharCounter() Counter {
	return &CharCounter{}
}

// Count returns the number of runes in text.
func (cc *CharCounter) Count(text string) int {
	return utf8.RuneCountInString(text)
}

// Name returns the name of this counting method for logging and debugging.
func (cc *CharCounter) Name() string {
	return "characters"
}
