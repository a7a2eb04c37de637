package editor

import (
	"encoding/json"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/sukalov/hymnal/internal/songs"
)

func el(tag string, kids ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for _, k := range kids {
		n.AppendChild(k)
	}
	return n
}

func txt(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func sup(tone string) *html.Node {
	return NewMarker(tone)
}

func root(kids ...*html.Node) *html.Node {
	r := NewRoot()
	for _, k := range kids {
		r.AppendChild(k)
	}
	return r
}

func plain(words string) songs.Section {
	return songs.Plain(words)
}

func note(tone, words string) songs.Section {
	return songs.Annotated(tone, words)
}

// dump renders lines as JSON so failures are readable.
func dump(t *testing.T, lines []songs.Line) string {
	t.Helper()
	data, err := json.Marshal(lines)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	return string(data)
}

func inner(t *testing.T, n *html.Node) string {
	t.Helper()
	s, err := InnerHTML(n)
	if err != nil {
		t.Fatalf("InnerHTML() error = %v", err)
	}
	return s
}
