package redis

import (
	"context"
	"os"
	"reflect"
	"testing"
	"time"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/sukalov/hymnal/internal/songs"
)

// newTestManager connects to REDIS_TEST_ADDR and skips when it is unset.
func newTestManager(t *testing.T) *DBManager {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	m := NewFromClient(redisClient.NewClient(&redisClient.Options{Addr: addr}), time.Minute)
	if err := m.Ping(context.Background()); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestKeys(t *testing.T) {
	if got := songKey("english", 12); got != "song:english:12" {
		t.Errorf("songKey() = %q", got)
	}
	if got := draftKey("abc"); got != "draft:abc" {
		t.Errorf("draftKey() = %q", got)
	}
}

func TestNewSessionID(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	if a == b {
		t.Errorf("NewSessionID() returned %q twice", a)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("NewSessionID() = %q is not a uuid: %v", a, err)
	}
}

func TestNewDBManagerParsesAddress(t *testing.T) {
	m, err := NewDBManager("cache.example.com:6379", "secret", time.Hour)
	if err != nil {
		t.Fatalf("NewDBManager() error = %v", err)
	}
	defer m.Close()
	opts := m.client.Options()
	if opts.Addr != "cache.example.com:6379" || opts.Password != "secret" || opts.TLSConfig == nil {
		t.Errorf("options = addr %q password %q tls %v", opts.Addr, opts.Password, opts.TLSConfig != nil)
	}
}

func TestDrafts(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	id := NewSessionID()

	if _, ok, err := m.GetDraft(ctx, id); err != nil || ok {
		t.Fatalf("GetDraft() before save = ok %v, err %v", ok, err)
	}
	if err := m.SaveDraft(ctx, id, "<div>Oh happy day</div>"); err != nil {
		t.Fatalf("SaveDraft() error = %v", err)
	}
	html, ok, err := m.GetDraft(ctx, id)
	if err != nil || !ok || html != "<div>Oh happy day</div>" {
		t.Errorf("GetDraft() = %q, %v, %v", html, ok, err)
	}
	if err := m.DeleteDraft(ctx, id); err != nil {
		t.Fatalf("DeleteDraft() error = %v", err)
	}
	if _, ok, _ := m.GetDraft(ctx, id); ok {
		t.Error("draft still present after DeleteDraft()")
	}
}

func TestSongCache(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t)
	song := songs.Song{
		Number:   9000 + int(time.Now().UnixNano()%1000),
		Language: "test",
		Title:    "Oh Happy Day",
		Key:      "A",
		Lines:    []songs.Line{{songs.Plain("Oh "), songs.Annotated("A", "happy day")}, {}},
	}

	if err := m.CacheSong(ctx, song); err != nil {
		t.Fatalf("CacheSong() error = %v", err)
	}
	got, ok, err := m.CachedSong(ctx, song.Language, song.Number)
	if err != nil || !ok {
		t.Fatalf("CachedSong() = ok %v, err %v", ok, err)
	}
	if !reflect.DeepEqual(got, song) {
		t.Errorf("CachedSong() = %+v, want %+v", got, song)
	}

	if err := m.InvalidateSong(ctx, song.Language, song.Number); err != nil {
		t.Fatalf("InvalidateSong() error = %v", err)
	}
	if _, ok, _ := m.CachedSong(ctx, song.Language, song.Number); ok {
		t.Error("song still cached after InvalidateSong()")
	}
}
