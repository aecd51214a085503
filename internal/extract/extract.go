// Package extract cleans scraped review text before tokenization.
// Reviews collected from web pages often keep inline markup (<br>, <i>,
// spoiler spans); PlainText reduces such a fragment to its visible text.
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockElements get a separating space so words across tags are not glued together
const blockElements = "br, p, div, li, blockquote, h1, h2, h3, h4, h5, h6"

// PlainText returns the visible text of an HTML fragment with whitespace collapsed.
// Text without markup is returned with whitespace collapsed only.
func PlainText(fragment string) (string, error) {
	if !strings.ContainsAny(fragment, "<&") {
		return collapseSpace(fragment), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	// script and style content is never part of a review
	doc.Find("script, style, noscript").Remove()
	doc.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.BeforeHtml(" ")
		s.AfterHtml(" ")
	})

	return collapseSpace(doc.Text()), nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
