package submit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/sukalov/hymnal/internal/songs"
)

const editorHTML = `<div class="custom-editor" contenteditable="true">` +
	`<div>Oh <sup class="tone-marker">A</sup><span style="margin-left: -0.75em;">happy day</span></div>` +
	`<div><br></div></div>`

func TestAssemble(t *testing.T) {
	song, err := Assemble(Form{
		Number:   " 12 ",
		Language: "english",
		Title:    "Oh Happy Day",
		Key:      "A",
		Editor:   editorHTML,
	})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	want := songs.Song{
		Number:   12,
		Language: "english",
		Title:    "Oh Happy Day",
		Key:      "A",
		Lines: []songs.Line{
			{songs.Plain("Oh "), songs.Annotated("A", "happy day")},
			{},
		},
	}
	if !reflect.DeepEqual(song, want) {
		t.Errorf("Assemble() = %+v, want %+v", song, want)
	}
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name string
		form Form
		want string
	}{
		{
			name: "missing title and key",
			form: Form{Number: "1", Language: "english", Editor: editorHTML},
			want: "missing fields: title, key",
		},
		{
			name: "nothing filled in",
			form: Form{},
			want: "missing fields: number, language, title, key, lines",
		},
		{
			name: "number not numeric",
			form: Form{Number: "twelve", Language: "english", Key: "A", Editor: editorHTML},
			want: `missing fields: title; number "twelve" is not a whole number`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(tt.form)
			if !errors.Is(err, songs.ErrInvalidSong) {
				t.Fatalf("Assemble() error = %v, want ErrInvalidSong", err)
			}
			if err.Error() != tt.want {
				t.Errorf("Assemble() error = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestAssembleTrimEmptyLines(t *testing.T) {
	form := Form{
		Number:         "1",
		Language:       "english",
		Title:          "t",
		Key:            "C",
		Editor:         `<div><br></div><div>a</div><div></div><div>b</div><div><br></div>`,
		TrimEmptyLines: true,
	}
	song, err := Assemble(form)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	want := []songs.Line{{songs.Plain("a")}, {}, {songs.Plain("b")}}
	if !reflect.DeepEqual(song.Lines, want) {
		t.Errorf("Lines = %v, want %v", song.Lines, want)
	}

	form.TrimEmptyLines = false
	song, _ = Assemble(form)
	if len(song.Lines) != 5 {
		t.Errorf("untrimmed lines = %d, want 5", len(song.Lines))
	}
}

func TestClientCreate(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/admin/" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		http.Redirect(w, r, "/admin/english/12/edit", http.StatusFound)
	}))
	defer srv.Close()

	song := songs.Song{Number: 12, Language: "english", Title: "t", Key: "A", Lines: []songs.Line{{}}}
	location, err := NewClient(srv.URL+"/", "secret").Create(context.Background(), song)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if location != "/admin/english/12/edit" {
		t.Errorf("Create() location = %q", location)
	}
	for _, field := range []string{"number", "language", "title", "key", "lines"} {
		if _, ok := gotBody[field]; !ok {
			t.Errorf("body has no %q field: %v", field, gotBody)
		}
	}
}

func TestClientUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if r.Method != http.MethodPut || r.URL.Path != "/admin/english/12" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if !strings.Contains(string(body), `"key":"Dm"`) {
			t.Errorf("body = %s", body)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	song := songs.Song{Number: 12, Language: "english", Title: "t", Key: "Dm", Lines: []songs.Line{{}}}
	if err := NewClient(srv.URL, "").Update(context.Background(), song); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
}

func TestClientRejected(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"error":"missing fields: title"}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Create(context.Background(), songs.Song{})
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("Create() error = %v, want *TransportError", err)
	}
	if terr.Status != http.StatusUnprocessableEntity || err.Error() != `{"error":"missing fields: title"}` {
		t.Errorf("TransportError = %d %q", terr.Status, err.Error())
	}
	if calls != 1 {
		t.Errorf("server called %d times, want 1", calls)
	}
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	_, err := NewClient(endpoint, "").Create(context.Background(), songs.Song{})
	if err == nil {
		t.Fatal("Create() against a closed server returned no error")
	}
	var terr *TransportError
	if errors.As(err, &terr) {
		t.Errorf("network failure reported as %v", terr)
	}
}
