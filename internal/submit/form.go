// Package submit assembles the song editor's form into a songs.Song and
// sends it to the hymns service.
package submit

import (
	"errors"
	"strconv"
	"strings"

	"github.com/sukalov/hymnal/internal/editor"
	"github.com/sukalov/hymnal/internal/songs"
)

// Form is the raw state of the edit page at the moment of submission.
type Form struct {
	Number   string
	Language string
	Title    string
	Key      string
	Editor   string

	// TrimEmptyLines drops empty lines at the start and end of the song.
	// Empty lines in between are always kept.
	TrimEmptyLines bool
}

// Assemble decodes the editor and validates the result. A non-numeric number
// is reported alongside any missing fields.
func Assemble(form Form) (songs.Song, error) {
	lines, err := editor.DecodeString(form.Editor)
	if err != nil {
		return songs.Song{}, err
	}
	if form.TrimEmptyLines {
		lines = trimEmpty(lines)
	}

	song := songs.Song{
		Language: strings.TrimSpace(form.Language),
		Title:    strings.TrimSpace(form.Title),
		Key:      strings.TrimSpace(form.Key),
		Lines:    lines,
	}

	var badNumber bool
	if raw := strings.TrimSpace(form.Number); raw != "" {
		song.Number, err = strconv.Atoi(raw)
		badNumber = err != nil
	}

	err = songs.Validate(song)
	if !badNumber {
		return song, err
	}

	var verr *songs.ValidationError
	if !errors.As(err, &verr) {
		verr = &songs.ValidationError{}
	}
	verr.Missing = removeField(verr.Missing, "number")
	verr.Problems = append([]string{"number " + strconv.Quote(strings.TrimSpace(form.Number)) + " is not a whole number"}, verr.Problems...)
	return song, verr
}

func trimEmpty(lines []songs.Line) []songs.Line {
	start, end := 0, len(lines)
	for start < end && len(lines[start]) == 0 {
		start++
	}
	for end > start && len(lines[end-1]) == 0 {
		end--
	}
	return lines[start:end]
}

func removeField(fields []string, name string) []string {
	out := fields[:0]
	for _, f := range fields {
		if f != name {
			out = append(out, f)
		}
	}
	return out
}
