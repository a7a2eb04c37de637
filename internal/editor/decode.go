package editor

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/sukalov/hymnal/internal/songs"
)

// Decode reads the editor tree into lines. Each div or p directly under root
// is one line. Every maximal run of other nodes under root, before or between
// the containers, is a line of its own. Decode does not modify the tree.
func Decode(root *html.Node) []songs.Line {
	lines := []songs.Line{}
	var loose []*html.Node

	flush := func() {
		if !formatting(loose) {
			if line := sections(loose); len(line) > 0 {
				lines = append(lines, line)
			}
		}
		loose = nil
	}

	for _, n := range children(root) {
		if !isLineContainer(n) {
			loose = append(loose, n)
			continue
		}
		flush()
		lines = append(lines, sections(children(n)))
	}
	flush()
	return lines
}

// sections partitions the children of one line. A marker owns its next
// sibling unless that sibling is another marker; every maximal run of
// unowned nodes is a plain section.
func sections(nodes []*html.Node) songs.Line {
	line := songs.Line{}
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			line = append(line, songs.Plain(plain.String()))
			plain.Reset()
		}
	}

	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		if !isMarker(n) {
			plain.WriteString(textOf(n))
			continue
		}

		flush()
		words := ""
		if i+1 < len(nodes) && !isMarker(nodes[i+1]) {
			words = textOf(nodes[i+1])
			i++
		}
		line = append(line, songs.Annotated(textOf(n), words))
	}
	flush()
	return line
}

// formatting reports whether a loose run is only the indentation between
// block tags of hand-written or pretty-printed HTML: whitespace that includes
// a line break. Such runs are the one place where decoded text differs from
// TextContent. Whitespace without a line break is kept as a line.
func formatting(nodes []*html.Node) bool {
	var b strings.Builder
	for _, n := range nodes {
		if isMarker(n) {
			return false
		}
		b.WriteString(textOf(n))
	}
	return isBlank(b.String()) && strings.ContainsAny(b.String(), "\n\r")
}
