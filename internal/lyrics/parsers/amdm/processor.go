package amdm

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const chordsBlockSelector = `pre[itemprop="chordsBlock"]`

var (
	commentRegex    = regexp.MustCompile(`/\*[^*]*\*/`)
	openCommentExpr = regexp.MustCompile(`(?m)/\*.*$`)
)

// chordsBlockText returns the chords-over-lyrics text of the block with
// chord diagrams and author comments removed.
func chordsBlockText(block *goquery.Selection) string {
	block = block.Clone()
	block.Find(".podbor__chord, .podbor__author-comment").Remove()

	// keyword divs carry section headings; keep each on its own line
	block.Find(".podbor__keyword").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml(html.EscapeString("\n" + s.Text()))
	})

	text := block.Text()
	text = commentRegex.ReplaceAllString(text, "")
	text = openCommentExpr.ReplaceAllString(text, "")
	return strings.ReplaceAll(text, "\u00a0", " ")
}
