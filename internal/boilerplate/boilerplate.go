// Package boilerplate removes the page furniture that scraped reviews carry
// along with the review body: voting prompts, report links, "read more"
// toggles and similar interface text.
//
// A review is split into segments on paragraph, line and sentence
// boundaries. Each segment is scored by the share of its words whose stem
// belongs to a small set of interface stems, and dropped when it holds at
// least minHits such words and the share reaches a position-dependent
// threshold: scraped furniture sits at the start and end of a review far
// more often than in its middle. A single interface word never condemns a
// segment, so short opinions such as "Liked it." survive.
//
// Usage Example:
//
//	clean := boilerplate.Strip("Loved it. Was this review helpful? Report abuse")
//	// clean == "Loved it."
package boilerplate

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
)

// interfaceStems are English snowball stems of words common in review page furniture
var interfaceStems = map[string]struct{}{
	// --- Voting & Feedback ---
	"help":   {}, // "helpful"
	"vote":   {},
	"review": {}, // "was this review helpful"

	// --- Moderation ---
	"report":     {},
	"abus":       {},
	"flag":       {},
	"inappropri": {},
	"spoiler":    {},

	// --- Navigation & Interaction ---
	"read":      {},
	"more":      {}, // "read more", "show more"
	"less":      {},
	"show":      {},
	"hide":      {},
	"comment":   {},
	"repli":     {},
	"share":     {},
	"permalink": {},
	"verifi":    {}, // "verified purchase"
	"purchas":   {},
}

// segment delimiters, from largest unit to smallest
var delimiters = []string{"\n\n", "\n", ". ", "? ", "! "}

// minHits is the number of interface words a segment needs before its
// share is considered.
const minHits = 2

var wordRegex = regexp.MustCompile(`\b[a-zA-Z]+\b`)

// Strip returns text without the segments classified as furniture,
// remaining segments joined by single spaces.
func Strip(text string) string {
	segments := Segments(text)
	kept := make([]string, 0, len(segments))
	for i, s := range segments {
		if IsFurniture(s, i, len(segments)) {
			continue
		}
		kept = append(kept, s)
	}
	if dropped := len(segments) - len(kept); dropped > 0 {
		slog.Debug("Dropped review furniture", "segments", len(segments), "dropped", dropped)
	}
	return strings.Join(kept, " ")
}

// Segments splits text on every delimiter in turn. Sentence punctuation
// stays with the segment it ends; blank segments are discarded.
func Segments(text string) []string {
	parts := []string{text}
	for _, d := range delimiters {
		var next []string
		for _, p := range parts {
			pieces := strings.Split(p, d)
			for i, piece := range pieces {
				if i < len(pieces)-1 {
					// put back the punctuation, not the trailing space or newline
					piece += strings.TrimRight(d, " \n")
				}
				if piece = strings.TrimSpace(piece); piece != "" {
					next = append(next, piece)
				}
			}
		}
		parts = next
	}
	return parts
}

// IsFurniture classifies segment index of total. Segments without any word
// are furniture (separators, star glyphs, counters).
func IsFurniture(segment string, index, total int) bool {
	if total <= 0 || index < 0 || index >= total {
		return false
	}

	words := wordRegex.FindAllString(strings.ToLower(segment), -1)
	if len(words) == 0 {
		return true
	}

	hits := 0
	for _, w := range words {
		stemmed, err := snowball.Stem(w, "english", true)
		if err != nil {
			stemmed = w
		}
		if _, ok := interfaceStems[stemmed]; ok {
			hits++
		}
	}
	if hits < minHits {
		return false
	}
	return float64(hits)/float64(len(words)) >= threshold(index, total)
}

// threshold is lower at the edges of a review than in the middle.
func threshold(index, total int) float64 {
	if total <= 2 {
		return 0.5
	}
	if index == 0 || index == total-1 {
		return 0.4
	}
	return 0.5
}
