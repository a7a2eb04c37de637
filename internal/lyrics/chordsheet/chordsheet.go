// Package chordsheet reads and writes the plain-text "chords over lyrics"
// layout used by chord sites and messengers.
//
//	   A        E
//	Oh happy day, oh happy day
//
// A line made only of chord names annotates the line below it; each chord is
// attached to the words starting at its column.
package chordsheet

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sukalov/hymnal/internal/songs"
)

var (
	chordRegex   = regexp.MustCompile(`^\(?[A-H](#|b)?(m|maj|min|dim|aug|sus|add|M)?[0-9]*((sus|add|maj)[0-9]*)?(/[A-H](#|b)?)?\)?$`)
	chordToken   = regexp.MustCompile(`\S+`)
	headingRegex = regexp.MustCompile(`^\[([^\]]+)\]:?`)
)

// Options tunes Parse.
type Options struct {
	// SkipSections lists section names (the text between brackets in a
	// heading such as "[Intro]:") whose content is dropped up to the next
	// blank line or heading.
	SkipSections []string
}

type chord struct {
	col  int
	name string
}

// IsChordLine reports whether every token on the line is a chord name or a
// bar separator, with at least one chord.
func IsChordLine(line string) bool {
	found := false
	for _, tok := range strings.Fields(line) {
		if strings.Trim(tok, "|") == "" {
			continue
		}
		if !chordRegex.MatchString(tok) {
			return false
		}
		found = true
	}
	return found
}

// Parse converts a chord sheet into lines. Consecutive blank lines collapse
// into one empty line; leading and trailing blank lines are dropped.
func Parse(text string, opts Options) []songs.Line {
	skip := make(map[string]bool, len(opts.SkipSections))
	for _, name := range opts.SkipSections {
		skip[strings.ToLower(name)] = true
	}

	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := []songs.Line{}
	skipping := false
	var pending []chord

	flushChords := func() {
		if pending != nil {
			lines = append(lines, merge(pending, ""))
			pending = nil
		}
	}
	blank := func() {
		flushChords()
		if len(lines) > 0 && len(lines[len(lines)-1]) > 0 {
			lines = append(lines, songs.Line{})
		}
	}

	for _, line := range raw {
		line = strings.TrimRight(line, " \t")
		trimmed := strings.TrimSpace(line)

		if m := headingRegex.FindStringSubmatch(trimmed); m != nil {
			flushChords()
			skipping = skip[strings.ToLower(strings.TrimSpace(m[1]))]
			continue
		}
		if trimmed == "" {
			skipping = false
			blank()
			continue
		}
		if skipping {
			continue
		}
		if IsChordLine(line) {
			flushChords()
			pending = chords(line)
			continue
		}

		lines = append(lines, merge(pending, line))
		pending = nil
	}
	flushChords()

	for len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func chords(line string) []chord {
	var out []chord
	for _, loc := range chordToken.FindAllStringIndex(line, -1) {
		name := line[loc[0]:loc[1]]
		if strings.Trim(name, "|") == "" {
			continue
		}
		out = append(out, chord{col: utf8.RuneCountInString(line[:loc[0]]), name: name})
	}
	return out
}

// merge attaches chords to the lyric by column.
func merge(chords []chord, lyric string) songs.Line {
	words := []rune(lyric)
	if len(chords) == 0 {
		return songs.Line{songs.Plain(lyric)}
	}

	at := func(from, to int) string {
		from, to = min(from, len(words)), min(to, len(words))
		return string(words[from:to])
	}

	line := songs.Line{}
	if lead := at(0, chords[0].col); lead != "" {
		line = append(line, songs.Plain(lead))
	}
	for i, c := range chords {
		end := len(words)
		if i+1 < len(chords) {
			end = chords[i+1].col
		}
		line = append(line, songs.Annotated(c.name, at(c.col, end)))
	}
	return line
}

// Format writes lines as a chord sheet. Lyrics are padded with spaces where
// two chords would otherwise touch.
func Format(lines []songs.Line) string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, formatLine(line)...)
	}
	return strings.Join(out, "\n")
}

func formatLine(line songs.Line) []string {
	var chordRow, lyricRow []rune
	annotated := false

	for _, s := range line {
		if s.HasNote() {
			annotated = true
			need := len(chordRow)
			if need > 0 {
				need++
			}
			for len(lyricRow) < need {
				lyricRow = append(lyricRow, ' ')
			}
			for len(chordRow) < len(lyricRow) {
				chordRow = append(chordRow, ' ')
			}
			chordRow = append(chordRow, []rune(*s.Note)...)
		}
		lyricRow = append(lyricRow, []rune(s.Words)...)
	}

	lyric := strings.TrimRight(string(lyricRow), " ")
	if !annotated {
		return []string{lyric}
	}
	if lyric == "" {
		return []string{string(chordRow)}
	}
	return []string{string(chordRow), lyric}
}
