package editor

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/sukalov/hymnal/internal/songs"
)

// NewRoot returns an empty editor element.
func NewRoot() *html.Node {
	return element(atom.Div,
		html.Attribute{Key: "class", Val: EditorClass},
		html.Attribute{Key: "contenteditable", Val: "true"},
		html.Attribute{Key: "spellcheck", Val: "false"},
	)
}

// Render builds an editor tree holding lines, one div per line. Decode
// returns lines unchanged as long as no line has two plain sections next to
// each other or a plain section with no words.
func Render(lines []songs.Line) *html.Node {
	root := NewRoot()
	for _, line := range lines {
		div := element(atom.Div)
		if len(line) == 0 {
			div.AppendChild(element(atom.Br))
		}
		for _, s := range line {
			if !s.HasNote() {
				div.AppendChild(text(s.Words))
				continue
			}
			div.AppendChild(NewMarker(*s.Note))
			div.AppendChild(NewRun(s.Words, *s.Note))
		}
		root.AppendChild(div)
	}
	return root
}
