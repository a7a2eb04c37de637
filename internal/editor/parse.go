package editor

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/sukalov/hymnal/internal/songs"
)

const editorSelector = `div.custom-editor[contenteditable]`

// Parse reads editor HTML. When the input contains the editor element, that
// element is the root; otherwise the whole input is treated as editor content.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse editor html: %w", err)
	}

	if root, err := FindEditor(doc); err == nil {
		return root, nil
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		return nil, ErrEditorNotFound
	}
	return body.Get(0), nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*html.Node, error) {
	return Parse(strings.NewReader(s))
}

// FindEditor locates the editor element in a full page.
func FindEditor(doc *goquery.Document) (*html.Node, error) {
	sel := doc.Find(editorSelector)
	if sel.Length() == 0 {
		return nil, ErrEditorNotFound
	}
	return sel.Get(0), nil
}

// InnerHTML serialises the content of the editor element.
func InnerHTML(root *html.Node) (string, error) {
	return goquery.NewDocumentFromNode(root).Html()
}

// OuterHTML serialises the editor element itself.
func OuterHTML(root *html.Node) (string, error) {
	return goquery.OuterHtml(goquery.NewDocumentFromNode(root).Selection)
}

// DecodeString parses editor HTML and decodes it.
func DecodeString(s string) ([]songs.Line, error) {
	root, err := ParseString(s)
	if err != nil {
		return nil, err
	}
	return Decode(root), nil
}
