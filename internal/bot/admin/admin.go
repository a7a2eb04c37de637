package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sukalov/hymnal/internal/bot"
	"github.com/sukalov/hymnal/internal/bot/common"
	"github.com/sukalov/hymnal/internal/hymns"
	"github.com/sukalov/hymnal/internal/lyrics/chordsheet"
	"github.com/sukalov/hymnal/internal/songs"
)

const maxResults = 10

// Songs is the part of hymns.Service the bot reads.
type Songs interface {
	GetSongByNumber(ctx context.Context, language string, number int) (songs.Song, error)
	QuerySongsByTitle(ctx context.Context, language, q string, skip, limit int) (songs.PaginatedResponse, error)
}

type AdminHandlers struct {
	songs   Songs
	admins  map[string]bool
	rebuild *RebuildHook
}

func NewAdminHandlers(songs Songs, adminUsernames []string, rebuild *RebuildHook) *AdminHandlers {
	admins := make(map[string]bool)
	for _, username := range adminUsernames {
		admins[username] = true
	}

	return &AdminHandlers{
		songs:   songs,
		admins:  admins,
		rebuild: rebuild,
	}
}

func (h *AdminHandlers) isAdmin(user *tgbotapi.User) bool {
	return user != nil && h.admins[user.UserName]
}

// Handlers returns the admin commands together with the common ones.
func (h *AdminHandlers) Handlers() bot.Handlers {
	commandHandlers := common.GetCommandHandlers()
	commandHandlers["song"] = h.songHandler
	commandHandlers["find"] = h.findHandler
	commandHandlers["rebuild"] = h.rebuildHandler

	callbackHandlers := common.GetCallbackHandlers()
	callbackHandlers["song"] = h.songCallbackHandler

	return bot.Handlers{
		Commands:  commandHandlers,
		Messages:  common.GetMessageHandlers(),
		Callbacks: callbackHandlers,
	}
}

// /song <language> <number>
func (h *AdminHandlers) songHandler(s bot.Sender, update tgbotapi.Update) error {
	message := update.Message
	if !h.isAdmin(message.From) {
		return s.SendMessage(message.Chat.ID, "вы не админ")
	}

	args := strings.Fields(message.CommandArguments())
	if len(args) != 2 {
		return s.SendMessage(message.Chat.ID, "использование: /song <язык> <номер>")
	}
	number, err := strconv.Atoi(args[1])
	if err != nil {
		return s.SendMessage(message.Chat.ID, fmt.Sprintf("%q - не номер", args[1]))
	}
	return h.sendSong(s, message.Chat.ID, args[0], number)
}

func (h *AdminHandlers) songCallbackHandler(s bot.Sender, update tgbotapi.Update) error {
	query := update.CallbackQuery
	if !h.isAdmin(query.From) || query.Message == nil {
		return nil
	}

	parts := strings.Split(query.Data, ":")
	if len(parts) != 3 {
		return fmt.Errorf("malformed callback data %q", query.Data)
	}
	number, err := strconv.Atoi(parts[2])
	if err != nil {
		return fmt.Errorf("malformed callback data %q: %w", query.Data, err)
	}
	return h.sendSong(s, query.Message.Chat.ID, parts[1], number)
}

func (h *AdminHandlers) sendSong(s bot.Sender, chatID int64, language string, number int) error {
	song, err := h.songs.GetSongByNumber(context.Background(), language, number)
	if errors.Is(err, hymns.ErrNotFound) {
		return s.SendMessage(chatID, "песня не найдена")
	}
	if err != nil {
		return err
	}
	return s.SendMessageWithMarkdown(chatID, FormatSong(song), true)
}

// FormatSong renders song as a Markdown message with the chord sheet in a
// code block.
func FormatSong(song songs.Song) string {
	header := fmt.Sprintf("*%d. %s*", song.Number, tgbotapi.EscapeText(tgbotapi.ModeMarkdown, song.Title))
	if song.Key != "" {
		header += fmt.Sprintf(" (%s)", tgbotapi.EscapeText(tgbotapi.ModeMarkdown, song.Key))
	}
	sheet := strings.ReplaceAll(chordsheet.Format(song.Lines), "```", "'''")
	return header + "\n```\n" + sheet + "\n```"
}

// /find <language> <title prefix>
func (h *AdminHandlers) findHandler(s bot.Sender, update tgbotapi.Update) error {
	message := update.Message
	if !h.isAdmin(message.From) {
		return s.SendMessage(message.Chat.ID, "вы не админ")
	}

	language, prefix, ok := strings.Cut(strings.TrimSpace(message.CommandArguments()), " ")
	prefix = strings.TrimSpace(prefix)
	if !ok || prefix == "" {
		return s.SendMessage(message.Chat.ID, "использование: /find <язык> <начало названия>")
	}

	res, err := h.songs.QuerySongsByTitle(context.Background(), language, prefix, 0, maxResults+1)
	if err != nil {
		return err
	}
	if len(res.Data) == 0 {
		return s.SendMessage(message.Chat.ID, "ничего не найдено")
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, song := range res.Data {
		if len(rows) >= maxResults {
			break
		}
		label := fmt.Sprintf("%d. %s", song.Number, song.Title)
		data := fmt.Sprintf("song:%s:%d", song.Language, song.Number)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data)))
	}

	text := "найденные песни:"
	if len(res.Data) > maxResults {
		text += fmt.Sprintf("\n(показаны первые %d)", maxResults)
	}
	return s.SendMessageWithButtons(message.Chat.ID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

// SetupHandlers starts adminBot with the admin handlers until ctx is done.
func SetupHandlers(ctx context.Context, adminBot *bot.Bot, songs Songs, adminUsernames []string, rebuild *RebuildHook) {
	handlers := NewAdminHandlers(songs, adminUsernames, rebuild)
	go adminBot.Start(ctx, handlers.Handlers())
}
