package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sukalov/hymnal/internal/hymns"
	"github.com/sukalov/hymnal/internal/songs"
)

type sent struct {
	chatID  int64
	text    string
	buttons *tgbotapi.InlineKeyboardMarkup
}

type recorder struct {
	messages []sent
}

func (r *recorder) SendMessage(chatID int64, text string) error {
	r.messages = append(r.messages, sent{chatID: chatID, text: text})
	return nil
}

func (r *recorder) SendMessageWithMarkdown(chatID int64, text string, _ bool) error {
	return r.SendMessage(chatID, text)
}

func (r *recorder) SendMessageWithButtons(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	r.messages = append(r.messages, sent{chatID: chatID, text: text, buttons: &markup})
	return nil
}

func (r *recorder) last(t *testing.T) sent {
	t.Helper()
	if len(r.messages) == 0 {
		t.Fatal("no message sent")
	}
	return r.messages[len(r.messages)-1]
}

type fakeSongs []songs.Song

func (f fakeSongs) GetSongByNumber(_ context.Context, language string, number int) (songs.Song, error) {
	for _, s := range f {
		if s.Language == language && s.Number == number {
			return s, nil
		}
	}
	return songs.Song{}, hymns.ErrNotFound
}

func (f fakeSongs) QuerySongsByTitle(_ context.Context, language, q string, skip, limit int) (songs.PaginatedResponse, error) {
	res := songs.PaginatedResponse{Skip: skip, Limit: limit, Data: []songs.Song{}}
	for _, s := range f {
		if s.Language == language && strings.HasPrefix(s.Title, q) && len(res.Data) < limit {
			res.Data = append(res.Data, s)
		}
	}
	return res, nil
}

var library = fakeSongs{
	{Number: 12, Language: "english", Title: "Oh Happy Day", Key: "G", Lines: []songs.Line{
		{songs.Plain("Oh "), songs.Annotated("A", "happy day")},
	}},
	{Number: 13, Language: "english", Title: "Oh Holy Night", Key: "C", Lines: []songs.Line{
		{songs.Plain("O holy night")},
	}},
}

func commandFrom(user, text string) tgbotapi.Update {
	cmd, _, _ := strings.Cut(text, " ")
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 42},
		From:     &tgbotapi.User{UserName: user},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}}
}

func TestSongCommand(t *testing.T) {
	h := NewAdminHandlers(library, []string{"admin"}, nil).Handlers()

	tests := []struct {
		name string
		user string
		text string
		want string
	}{
		{"song", "admin", "/song english 12", "*12. Oh Happy Day* (G)\n```\n   A\nOh happy day\n```"},
		{"not admin", "guest", "/song english 12", "вы не админ"},
		{"missing", "admin", "/song english 99", "песня не найдена"},
		{"usage", "admin", "/song english", "использование: /song <язык> <номер>"},
		{"bad number", "admin", "/song english twelve", `"twelve" - не номер`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			if err := h.Dispatch(r, commandFrom(tt.user, tt.text)); err != nil {
				t.Fatalf("Dispatch() error = %v", err)
			}
			if got := r.last(t); got.text != tt.want || got.chatID != 42 {
				t.Errorf("sent %q to %d, want %q to 42", got.text, got.chatID, tt.want)
			}
		})
	}
}

func TestFindAndCallback(t *testing.T) {
	h := NewAdminHandlers(library, []string{"admin"}, nil).Handlers()
	r := &recorder{}

	if err := h.Dispatch(r, commandFrom("admin", "/find english Oh H")); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	got := r.last(t)
	if got.buttons == nil || len(got.buttons.InlineKeyboard) != 2 {
		t.Fatalf("find reply = %+v, want two buttons", got)
	}
	button := got.buttons.InlineKeyboard[1][0]
	if button.Text != "13. Oh Holy Night" || *button.CallbackData != "song:english:13" {
		t.Errorf("button = %q / %q", button.Text, *button.CallbackData)
	}

	callback := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		From:    &tgbotapi.User{UserName: "admin"},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 42}},
		Data:    *button.CallbackData,
	}}
	if err := h.Dispatch(r, callback); err != nil {
		t.Fatalf("Dispatch(callback) error = %v", err)
	}
	if got := r.last(t).text; !strings.Contains(got, "O holy night") {
		t.Errorf("callback reply = %q", got)
	}

	if err := h.Dispatch(r, commandFrom("admin", "/find english Zzz")); err != nil {
		t.Fatal(err)
	}
	if got := r.last(t).text; got != "ничего не найдено" {
		t.Errorf("empty find reply = %q", got)
	}
}

func TestFormatSongEscapesTitle(t *testing.T) {
	got := FormatSong(songs.Song{Number: 1, Title: "Jesus_Loves *Me*"})
	if !strings.HasPrefix(got, `*1. Jesus\_Loves \*Me\**`) {
		t.Errorf("FormatSong() = %q", got)
	}
}

func TestRebuild(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	h := NewAdminHandlers(library, []string{"admin"}, &RebuildHook{URL: srv.URL, Token: "pat"}).Handlers()
	r := &recorder{}
	if err := h.Dispatch(r, commandFrom("admin", "/rebuild")); err != nil {
		t.Fatal(err)
	}
	if got := r.last(t).text; got != "запущен процесс пересборки сайта" {
		t.Errorf("reply = %q", got)
	}
	if auth != "token pat" {
		t.Errorf("Authorization = %q", auth)
	}

	unconfigured := NewAdminHandlers(library, []string{"admin"}, nil).Handlers()
	if err := unconfigured.Dispatch(r, commandFrom("admin", "/rebuild")); err != nil {
		t.Fatal(err)
	}
	if got := r.last(t).text; !strings.HasPrefix(got, "ошибка") {
		t.Errorf("unconfigured reply = %q", got)
	}
}
