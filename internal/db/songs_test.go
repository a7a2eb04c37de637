package db

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/sukalov/hymnal/internal/songs"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close() })

	store := NewStore(database)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return store
}

func song(language string, number int, title string) songs.Song {
	return songs.Song{
		Number:   number,
		Language: language,
		Title:    title,
		Key:      "G",
		Lines: []songs.Line{
			{songs.Plain("Oh "), songs.Annotated("A", "happy day")},
			{},
		},
	}
}

func titles(list []songs.Song) []string {
	out := []string{}
	for _, s := range list {
		out = append(out, s.Title)
	}
	return out
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	want := song("english", 1, "Oh Happy Day")

	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.GetByNumber(ctx, "english", 1)
	if err != nil {
		t.Fatalf("GetByNumber() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetByNumber() = %+v, want %+v", got, want)
	}

	got, err = store.GetByTitle(ctx, "english", "Oh Happy Day")
	if err != nil {
		t.Fatalf("GetByTitle() error = %v", err)
	}
	if got.Number != 1 {
		t.Errorf("GetByTitle() number = %d", got.Number)
	}

	if _, err := store.GetByNumber(ctx, "swahili", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByNumber() missing error = %v, want ErrNotFound", err)
	}
	if _, err := store.GetByTitle(ctx, "english", "Nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByTitle() missing error = %v, want ErrNotFound", err)
	}
}

func TestSaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.Save(ctx, song("english", 1, "Draft")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	updated := song("english", 1, "Final")
	updated.Key = "Dm"
	if err := store.Save(ctx, updated); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.GetByNumber(ctx, "english", 1)
	if err != nil {
		t.Fatalf("GetByNumber() error = %v", err)
	}
	if got.Title != "Final" || got.Key != "Dm" {
		t.Errorf("GetByNumber() = %+v", got)
	}
}

func TestQueries(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	for _, s := range []songs.Song{
		song("english", 1, "Amazing Grace"),
		song("english", 12, "Abide With Me"),
		song("english", 120, "A Mighty Fortress"),
		song("english", 2, "Be Thou My Vision"),
		song("english", 3, "100% Sure"),
		song("swahili", 1, "Neema Ya Ajabu"),
	} {
		if err := store.Save(ctx, s); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	tests := []struct {
		name string
		run  func() ([]songs.Song, error)
		want []string
	}{
		{"title prefix", func() ([]songs.Song, error) { return store.QueryByTitle(ctx, "english", "A", 0, 20) }, []string{"A Mighty Fortress", "Abide With Me", "Amazing Grace"}},
		{"title prefix is case insensitive", func() ([]songs.Song, error) { return store.QueryByTitle(ctx, "english", "amaz", 0, 20) }, []string{"Amazing Grace"}},
		{"title skip and limit", func() ([]songs.Song, error) { return store.QueryByTitle(ctx, "english", "A", 1, 1) }, []string{"Abide With Me"}},
		{"title wildcard is literal", func() ([]songs.Song, error) { return store.QueryByTitle(ctx, "english", "100%", 0, 20) }, []string{"100% Sure"}},
		{"title no match", func() ([]songs.Song, error) { return store.QueryByTitle(ctx, "english", "Z", 0, 20) }, []string{}},
		{"number prefix", func() ([]songs.Song, error) { return store.QueryByNumber(ctx, "english", 1, 0, 20) }, []string{"Amazing Grace", "Abide With Me", "A Mighty Fortress"}},
		{"number prefix other language", func() ([]songs.Song, error) { return store.QueryByNumber(ctx, "swahili", 1, 0, 20) }, []string{"Neema Ya Ajabu"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.run()
			if err != nil {
				t.Fatalf("query error = %v", err)
			}
			if !reflect.DeepEqual(titles(got), tt.want) {
				t.Errorf("got %v, want %v", titles(got), tt.want)
			}
		})
	}

	languages, err := store.Languages(ctx)
	if err != nil {
		t.Fatalf("Languages() error = %v", err)
	}
	if !reflect.DeepEqual(languages, []string{"english", "swahili"}) {
		t.Errorf("Languages() = %v", languages)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	for _, s := range []songs.Song{
		song("english", 1, "Amazing Grace"),
		song("swahili", 1, "Neema Ya Ajabu"),
		song("english", 2, "Be Thou My Vision"),
	} {
		if err := store.Save(ctx, s); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	removed, err := store.Delete(ctx, "english", 2)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if removed.Title != "Be Thou My Vision" {
		t.Errorf("Delete() = %+v", removed)
	}
	if _, err := store.Delete(ctx, "english", 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}

	all, err := store.DeleteEverywhere(ctx, 1)
	if err != nil {
		t.Fatalf("DeleteEverywhere() error = %v", err)
	}
	if !reflect.DeepEqual(titles(all), []string{"Amazing Grace", "Neema Ya Ajabu"}) {
		t.Errorf("DeleteEverywhere() = %v", titles(all))
	}
	if _, err := store.DeleteEverywhere(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteEverywhere() error = %v, want ErrNotFound", err)
	}
}
