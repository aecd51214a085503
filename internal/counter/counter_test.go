package counter

import (
	"testing"
)

func TestWordCounter(t *testing.T) {
	counter := NewWordCounter()

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"empty string", "", 0},
		{"single word", "lovely", 1},
		{"multiple words", "a lovely read", 3},
		{"whitespace handling", "  slow   start  ", 2},
		{"unicode words", "café naïve résumé", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := counter.Count(tt.text)
			if result != tt.expected {
				t.Errorf("WordCounter.Count(%q) = %d, want %d", tt.text, result, tt.expected)
			}
		})
	}

	if counter.Name() != "words" {
		t.Errorf("WordCounter.Name() = %q, want %q", counter.Name(), "words")
	}
}

func TestCharCounter(t *testing.T) {
	counter := NewCharCounter()

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"empty string", "", 0},
		{"single char", "a", 1},
		{"multiple chars", "novel", 5},
		{"unicode chars", "café", 4},
		{"whitespace included", "a b", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := counter.Count(tt.text)
			if result != tt.expected {
				t.Errorf("CharCounter.Count(%q) = %d, want %d", tt.text, result, tt.expected)
			}
		})
	}
}

func TestTokenCounter(t *testing.T) {
	counter, err := NewTokenCounter()
	if err != nil {
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}

	if got := counter.Count(""); got != 0 {
		t.Errorf("TokenCounter.Count(\"\") = %d, want 0", got)
	}
	// exact token counts vary with encoding versions
	if got := counter.Count("An unforgettable story."); got <= 0 {
		t.Errorf("TokenCounter.Count() = %d, want positive", got)
	}
	if counter.Name() != "tokens (cl100k_base)" {
		t.Errorf("TokenCounter.Name() = %q", counter.Name())
	}
}

func TestFeatureNames(t *testing.T) {
	tests := []struct {
		method  CountingMethod
		feature string
		name    string
	}{
		{Tokens, "token_count", "tokens"},
		{Words, "word_count", "words"},
		{Characters, "char_count", "characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.method.FeatureName(); got != tt.feature {
				t.Errorf("FeatureName() = %q, want %q", got, tt.feature)
			}
			if got := tt.method.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			parsed, err := ParseFeature(tt.feature)
			if err != nil || parsed != tt.method {
				t.Errorf("ParseFeature(%q) = %v, %v; want %v", tt.feature, parsed, err, tt.method)
			}
		})
	}

	if _, err := ParseFeature("afinn"); err == nil {
		t.Error("ParseFeature(afinn) should fail")
	}
	if CountingMethod(999).String() != "unknown" {
		t.Error("invalid method should stringify as unknown")
	}
}

func TestNewCounterUnknown(t *testing.T) {
	if _, err := NewCounter(CountingMethod(42)); err == nil {
		t.Error("NewCounter with unknown method should fail")
	}
	c, err := NewCounter(Words)
	if err != nil || c.Name() != "words" {
		t.Errorf("NewCounter(Words) = %v, %v", c, err)
	}
}
