package editor

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Selection is a run of already-present text, addressed in TextContent
// coordinates.
type Selection struct {
	Text  string `json:"text"`
	Start int    `json:"start"`
}

// RunOffset is the left shift that places a run under the start of its
// marker: 0.75em per tone character.
func RunOffset(tone string) string {
	em := runOffsetUnit * float64(utf8.RuneCountInString(tone))
	return strconv.FormatFloat(em, 'f', -1, 64) + "em"
}

// NewMarker returns the superscript node that displays a tone.
func NewMarker(tone string) *html.Node {
	sup := element(atom.Sup, html.Attribute{Key: "class", Val: MarkerClass})
	sup.AppendChild(text(tone))
	return sup
}

// NewRun returns the span holding the words a tone is attached to.
func NewRun(words, tone string) *html.Node {
	style := fmt.Sprintf("margin-left: -%s;", RunOffset(tone))
	span := element(atom.Span, html.Attribute{Key: "style", Val: style})
	span.AppendChild(text(words))
	return span
}

// Encode replaces the selected run with a tone marker followed by a run node
// holding the same words. Everything outside the selection, including the
// attributes of surrounding nodes, is left as it was. Text a marker already
// owns cannot be annotated again.
func Encode(root *html.Node, sel Selection, tone string) error {
	if sel.Text == "" {
		return ErrEmptySelection
	}
	if tone == "" {
		return ErrEmptyTone
	}

	leaf, offset, ok := locate(root, sel.Start)
	if !ok {
		return ErrStaleSelection
	}

	runes := []rune(leaf.Data)
	n := utf8.RuneCountInString(sel.Text)
	if offset+n > len(runes) {
		if spansLeaves(root, sel) {
			return ErrSelectionSpansNodes
		}
		return ErrStaleSelection
	}
	if string(runes[offset:offset+n]) != sel.Text {
		return ErrStaleSelection
	}

	top := leaf
	for top.Parent != root && !isLineContainer(top.Parent) {
		top = top.Parent
	}
	for p := leaf; ; p = p.Parent {
		if isMarker(prevContent(p)) {
			return ErrOverlappingAnnotation
		}
		if p == top {
			break
		}
	}

	if top != leaf {
		liftSplit(top, leaf, offset, offset+n, tone)
		return nil
	}

	before := string(runes[:offset])
	after := string(runes[offset+n:])
	parent, next := leaf.Parent, leaf.NextSibling

	parent.InsertBefore(NewMarker(tone), next)
	parent.InsertBefore(NewRun(sel.Text, tone), next)
	if after != "" {
		parent.InsertBefore(text(after), next)
	}

	if before == "" {
		parent.RemoveChild(leaf)
	} else {
		leaf.Data = before
	}
	return nil
}

// liftSplit annotates runes [from, to) of leaf when leaf sits inside inline
// formatting such as <b> or a pasted <span>. top, the formatting element
// directly under the line, is replaced by its content before the selection,
// the marker and run, and its content after the selection.
func liftSplit(top, leaf *html.Node, from, to int, tone string) {
	words := string([]rune(leaf.Data)[from:to])
	parent := top.Parent

	if before := part(top, leaf, from, true); before != nil {
		parent.InsertBefore(before, top)
	}
	parent.InsertBefore(NewMarker(tone), top)
	parent.InsertBefore(NewRun(words, tone), top)
	if after := part(top, leaf, to, false); after != nil {
		parent.InsertBefore(after, top)
	}
	parent.RemoveChild(top)
}

// part copies n keeping only what lies before (or after) rune cut of leaf.
// It returns nil when nothing is left.
func part(n, leaf *html.Node, cut int, before bool) *html.Node {
	if n == leaf {
		runes := []rune(n.Data)
		s := string(runes[cut:])
		if before {
			s = string(runes[:cut])
		}
		if s == "" {
			return nil
		}
		return text(s)
	}

	c := &html.Node{Type: n.Type, DataAtom: n.DataAtom, Data: n.Data, Namespace: n.Namespace}
	c.Attr = append([]html.Attribute(nil), n.Attr...)
	passed := false
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		switch {
		case contains(ch, leaf):
			if p := part(ch, leaf, cut, before); p != nil {
				c.AppendChild(p)
			}
			passed = true
		case before != passed:
			c.AppendChild(clone(ch))
		}
	}
	if c.FirstChild == nil {
		return nil
	}
	return c
}

func spansLeaves(root *html.Node, sel Selection) bool {
	all := []rune(TextContent(root))
	end := sel.Start + utf8.RuneCountInString(sel.Text)
	return end <= len(all) && string(all[sel.Start:end]) == sel.Text
}
