// Command hymnal-import converts songs between chord sites, editor HTML and
// the songs JSON format.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/sukalov/hymnal/internal/editor"
	"github.com/sukalov/hymnal/internal/lyrics"
	"github.com/sukalov/hymnal/internal/lyrics/chordsheet"
	"github.com/sukalov/hymnal/internal/songs"
	"github.com/sukalov/hymnal/internal/submit"
)

var CLI struct {
	Fetch  FetchCmd  `cmd:"" help:"Import a song from a chord site (amdm.ru)"`
	Decode DecodeCmd `cmd:"" help:"Print the lines of an editor HTML file as JSON"`
	Render RenderCmd `cmd:"" help:"Print the editor HTML of a song JSON file"`
	Sheet  SheetCmd  `cmd:"" help:"Print a song JSON file as a chord sheet"`
	Submit SubmitCmd `cmd:"" help:"Send an edited song to the hymns service"`
}

type FetchCmd struct {
	URL    string `arg:"" help:"Song page URL"`
	Output string `name:"output" short:"o" help:"Write the song JSON to this file instead of stdout" type:"path"`
}

func (f *FetchCmd) Run() error {
	res, err := lyrics.NewService().Import(context.Background(), f.URL)
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if f.Output != "" {
		file, err := os.Create(f.Output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", f.Output, err)
		}
		defer file.Close()
		out = file
	}
	return writeJSON(out, res.Song())
}

type DecodeCmd struct {
	File string `arg:"" help:"Editor HTML file" type:"existingfile"`
}

func (d *DecodeCmd) Run() error {
	file, err := os.Open(d.File)
	if err != nil {
		return err
	}
	defer file.Close()

	root, err := editor.Parse(file)
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, editor.Decode(root))
}

type RenderCmd struct {
	File string `arg:"" help:"Song JSON file" type:"existingfile"`
}

func (r *RenderCmd) Run() error {
	song, err := readSong(r.File)
	if err != nil {
		return err
	}
	markup, err := editor.OuterHTML(editor.Render(song.Lines))
	if err != nil {
		return err
	}
	_, err = fmt.Println(markup)
	return err
}

type SheetCmd struct {
	File string `arg:"" help:"Song JSON file" type:"existingfile"`
}

func (s *SheetCmd) Run() error {
	song, err := readSong(s.File)
	if err != nil {
		return err
	}
	_, err = fmt.Println(chordsheet.Format(song.Lines))
	return err
}

type SubmitCmd struct {
	File     string `arg:"" help:"Editor HTML file" type:"existingfile"`
	Number   string `name:"number" required:"" help:"Song number"`
	Language string `name:"language" required:"" help:"Song language"`
	Title    string `name:"title" help:"Song title"`
	Key      string `name:"key" help:"Song key, e.g. G or C#m"`
	URL      string `name:"url" env:"HYMNAL_URL" default:"http://localhost:8080" help:"Hymns service base URL"`
	Token    string `name:"token" env:"ADMIN_TOKEN" help:"Admin bearer token"`
	Update   bool   `name:"update" help:"Update an existing song instead of creating one"`
	Trim     bool   `name:"trim" help:"Drop empty lines at the start and end"`
}

func (s *SubmitCmd) Run() error {
	return s.submit(context.Background(), os.Stdout)
}

// submit assembles the form and sends it. A rejected request prints the
// service's response body unchanged.
func (s *SubmitCmd) submit(ctx context.Context, w io.Writer) error {
	markup, err := os.ReadFile(s.File)
	if err != nil {
		return err
	}

	song, err := submit.Assemble(submit.Form{
		Number:         s.Number,
		Language:       s.Language,
		Title:          s.Title,
		Key:            s.Key,
		Editor:         string(markup),
		TrimEmptyLines: s.Trim,
	})
	if err != nil {
		return err
	}

	client := submit.NewClient(s.URL, s.Token)
	if s.Update {
		err = client.Update(ctx, song)
		if err == nil {
			_, err = fmt.Fprintf(w, "updated %s/%d\n", song.Language, song.Number)
		}
	} else {
		var location string
		location, err = client.Create(ctx, song)
		if err == nil {
			_, err = fmt.Fprintf(w, "created %s/%d: %s\n", song.Language, song.Number, location)
		}
	}

	var terr *submit.TransportError
	if errors.As(err, &terr) {
		fmt.Fprintln(w, terr.Body)
	}
	return err
}

func readSong(path string) (songs.Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return songs.Song{}, err
	}
	var song songs.Song
	if err := json.Unmarshal(data, &song); err != nil {
		return songs.Song{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return song, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("hymnal-import"),
		kong.Description("Convert songs between chord sites, editor HTML and JSON"),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
