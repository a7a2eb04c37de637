// Package editor converts between the song editor's rich-text tree and the
// structured songs.Line model.
//
// The tree is the inner content of a contenteditable element, held as an
// *html.Node. Block elements (div, p) are lines. A tone is a <sup> marker
// followed by the run of words it sits above:
//
//	<div>Oh <sup class="tone-marker">A</sup><span style="margin-left: -0.75em;">happy day</span></div>
//
// Encode splices a marker and run into the tree at a selection. Decode walks the
// whole tree once and returns the lines. Render builds a fresh tree from lines.
package editor
