package songs

// Tones is the fixed set of notes offered by the tone picker. A song key
// must be one of them.
var Tones = []string{
	"C", "Cm", "C#", "C#m",
	"D", "Dm", "D#", "D#m",
	"E", "Em",
	"F", "Fm", "F#", "F#m",
	"G", "Gm", "G#", "G#m",
	"A", "Am", "A#", "A#m",
	"B", "Bm",
}

var toneSet = func() map[string]bool {
	m := make(map[string]bool, len(Tones))
	for _, t := range Tones {
		m[t] = true
	}
	return m
}()

// IsTone reports whether s is one of Tones.
func IsTone(s string) bool {
	return toneSet[s]
}
