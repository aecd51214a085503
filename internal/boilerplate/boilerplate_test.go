package boilerplate

import (
	"reflect"
	"testing"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "   ", nil},
		{"single", "Loved it", []string{"Loved it"}},
		{"sentences", "Loved it. Really! Why? Because", []string{"Loved it.", "Really!", "Why?", "Because"}},
		{"lines", "First line\nSecond line\n\nThird", []string{"First line", "Second line", "Third"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segments(tt.text)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Segments(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"voting prompt", "Loved it. Was this review helpful? Report abuse", "Loved it."},
		{"read more toggle", "A slow start but a wonderful ending.\nRead more", "A slow start but a wonderful ending."},
		{"no furniture", "The plot was thin. The characters were great.", "The plot was thin. The characters were great."},
		{"star glyphs", "★★★★★\nGreat book", "Great book"},
		{"all furniture", "Report abuse", ""},
		{"short opinion", "Liked it.", "Liked it."},
		{"short opinions", "Great book. Liked it.", "Great book. Liked it."},
		{"thanks kept", "Thank you for writing this.", "Thank you for writing this."},
		{"verified purchase", "Verified Purchase\nSolid thriller.", "Solid thriller."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Strip(tt.text); got != tt.want {
				t.Errorf("Strip(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsFurnitureBounds(t *testing.T) {
	if IsFurniture("Report abuse", 0, 0) {
		t.Error("zero total should never classify")
	}
	if IsFurniture("Report abuse", 3, 3) {
		t.Error("out of range index should never classify")
	}
}

func TestIsFurnitureNeedsTwoInterfaceWords(t *testing.T) {
	// one interface word out of one is a full share but still content
	for _, seg := range []string{"Helpful!", "Spoiler", "A great read."} {
		if IsFurniture(seg, 0, 1) {
			t.Errorf("IsFurniture(%q) = true, want false", seg)
		}
	}
	if !IsFurniture("Show more", 0, 1) {
		t.Error(`IsFurniture("Show more") = false, want true`)
	}
}

func TestThresholdByPosition(t *testing.T) {
	if threshold(0, 2) != 0.5 {
		t.Errorf("short review threshold = %v", threshold(0, 2))
	}
	if threshold(0, 5) >= threshold(2, 5) {
		t.Error("edge threshold should be below the middle threshold")
	}
	if threshold(4, 5) != threshold(0, 5) {
		t.Error("first and last segments share a threshold")
	}
}
