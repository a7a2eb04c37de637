package songs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSong is matched by every ValidationError.
var ErrInvalidSong = errors.New("invalid song")

// ValidationError lists every problem found in a song at once.
type ValidationError struct {
	Missing  []string
	Problems []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing fields: "+strings.Join(e.Missing, ", "))
	}
	parts = append(parts, e.Problems...)
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSong
}

// Validate checks the form fields of a song. It does not stop at the first
// complaint: all of them end up in one *ValidationError.
func Validate(song Song) error {
	verr := &ValidationError{}

	if song.Number <= 0 {
		verr.Missing = append(verr.Missing, "number")
	}
	if strings.TrimSpace(song.Language) == "" {
		verr.Missing = append(verr.Missing, "language")
	}
	if strings.TrimSpace(song.Title) == "" {
		verr.Missing = append(verr.Missing, "title")
	}
	switch {
	case strings.TrimSpace(song.Key) == "":
		verr.Missing = append(verr.Missing, "key")
	case !IsTone(song.Key):
		verr.Problems = append(verr.Problems, fmt.Sprintf("invalid key %q", song.Key))
	}
	if len(song.Lines) == 0 {
		verr.Missing = append(verr.Missing, "lines")
	}

	if len(verr.Missing) == 0 && len(verr.Problems) == 0 {
		return nil
	}
	return verr
}
