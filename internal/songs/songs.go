package songs

import (
	"encoding/json"
	"strings"
)

// Section is the smallest structured unit of a song: a run of words,
// optionally annotated with a tone that sits above its first character.
type Section struct {
	Note  *string `json:"note"`
	Words string  `json:"words"`
}

// Line is one visual line of a song, in reading order.
type Line []Section

// Song is the record submitted to and served by the hymns service.
type Song struct {
	Number   int    `json:"number"`
	Language string `json:"language"`
	Title    string `json:"title"`
	Key      string `json:"key"`
	Lines    []Line `json:"lines"`
}

// PartialSong carries the fields an update may change.
type PartialSong struct {
	Key   *string `json:"key,omitempty"`
	Lines []Line  `json:"lines,omitempty"`
}

// PaginatedResponse wraps a page of query results.
type PaginatedResponse struct {
	Skip  int    `json:"skip"`
	Limit int    `json:"limit"`
	Data  []Song `json:"data"`
}

// Plain returns an unannotated section.
func Plain(words string) Section {
	return Section{Words: words}
}

// Annotated returns a section whose words carry the given tone.
func Annotated(note, words string) Section {
	return Section{Note: &note, Words: words}
}

// HasNote reports whether the section is annotated.
func (s Section) HasNote() bool {
	return s.Note != nil
}

// NoteString returns the tone, or "" for a plain run.
func (s Section) NoteString() string {
	if s.Note == nil {
		return ""
	}
	return *s.Note
}

// Text reconstructs the line text; tones are metadata and are not part of it.
func (l Line) Text() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Words)
	}
	return b.String()
}

// MarshalJSON keeps empty lines as [] instead of null.
func (l Line) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Section(l))
}

// Text joins the text of every line with newlines.
func (s Song) Text() string {
	parts := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		parts[i] = l.Text()
	}
	return strings.Join(parts, "\n")
}

// Apply returns a copy of song with the fields set in p replaced.
func (p PartialSong) Apply(song Song) Song {
	if p.Key != nil {
		song.Key = *p.Key
	}
	if p.Lines != nil {
		song.Lines = p.Lines
	}
	return song
}
