package editor

import "errors"

// Encoder and parser errors. Encode leaves the tree untouched when it
// returns any of them.
var (
	ErrEmptySelection        = errors.New("editor: empty selection")
	ErrEmptyTone             = errors.New("editor: empty tone")
	ErrStaleSelection        = errors.New("editor: selection no longer matches the editor text")
	ErrSelectionSpansNodes   = errors.New("editor: selection crosses a node boundary")
	ErrOverlappingAnnotation = errors.New("editor: selection lies inside an existing annotation")
	ErrEditorNotFound        = errors.New("editor: editor element not found")
)
