package editor

import (
	"strings"
	"unicode/utf8"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// MarkerClass is the class of the sup element that shows a tone.
	MarkerClass   = "tone-marker"
	// EditorClass is the class of the contenteditable root element.
	EditorClass   = "custom-editor"
	runOffsetUnit = 0.75
)

var (
	markerSel    = cascadia.MustCompile("sup")
	containerSel = cascadia.MustCompile("div, p")
)

func isMarker(n *html.Node) bool {
	return n.Type == html.ElementNode && markerSel.Match(n)
}

func isLineContainer(n *html.Node) bool {
	return n.Type == html.ElementNode && containerSel.Match(n)
}

// children returns the child nodes that carry content. Comments and
// processing leftovers are not part of the editor text.
func children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode || c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// textOf is the DOM textContent of n.
func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				b.WriteString(c.Data)
			case html.ElementNode:
				walk(c)
			}
		}
	}
	walk(n)
	return b.String()
}

// textLeaves returns the text nodes under root in document order, skipping
// marker subtrees.
func textLeaves(root *html.Node) []*html.Node {
	var leaves []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.TextNode:
				leaves = append(leaves, c)
			case isMarker(c):
			case c.Type == html.ElementNode:
				walk(c)
			}
		}
	}
	walk(root)
	return leaves
}

// TextContent returns the editor text with tone markers left out. Selection
// offsets are rune offsets into this string.
func TextContent(root *html.Node) string {
	var b strings.Builder
	for _, leaf := range textLeaves(root) {
		b.WriteString(leaf.Data)
	}
	return b.String()
}

// locate finds the text leaf holding the rune at offset and the rune offset
// inside that leaf.
func locate(root *html.Node, offset int) (*html.Node, int, bool) {
	if offset < 0 {
		return nil, 0, false
	}
	pos := 0
	for _, leaf := range textLeaves(root) {
		n := utf8.RuneCountInString(leaf.Data)
		if offset < pos+n {
			return leaf, offset - pos, true
		}
		pos += n
	}
	return nil, 0, false
}

// prevContent is the previous sibling that carries content, the node a
// marker would own n through.
func prevContent(n *html.Node) *html.Node {
	for p := n.PrevSibling; p != nil; p = p.PrevSibling {
		if p.Type == html.TextNode || p.Type == html.ElementNode {
			return p
		}
	}
	return nil
}

func contains(n, desc *html.Node) bool {
	for ; desc != nil; desc = desc.Parent {
		if desc == n {
			return true
		}
	}
	return false
}

func clone(n *html.Node) *html.Node {
	c := &html.Node{Type: n.Type, DataAtom: n.DataAtom, Data: n.Data, Namespace: n.Namespace}
	c.Attr = append([]html.Attribute(nil), n.Attr...)
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.AppendChild(clone(ch))
	}
	return c
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
