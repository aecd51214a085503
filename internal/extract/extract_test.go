package extract

import "testing"

func TestPlainText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text", "a  good\nbook", "a good book"},
		{"inline markup", "a <i>good</i> book", "a good book"},
		{"line breaks", "first line<br>second line", "first line second line"},
		{"paragraphs", "<p>one</p><p>two</p>", "one two"},
		{"entities", "fish &amp; chips", "fish & chips"},
		{"script removed", "nice<script>alert(1)</script> read", "nice read"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlainText(tt.input)
			if err != nil {
				t.Fatalf("PlainText(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
