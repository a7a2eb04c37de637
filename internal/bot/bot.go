package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sukalov/hymnal/internal/logger"
)

// Sender is what handlers reply through.
type Sender interface {
	SendMessage(chatID int64, text string) error
	SendMessageWithMarkdown(chatID int64, text string, disableLinks bool) error
	SendMessageWithButtons(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error
}

type Handler func(s Sender, update tgbotapi.Update) error

// Handlers routes updates. Callback handlers are keyed by the part of the
// callback data before the first colon, so "song:english:12" goes to "song".
type Handlers struct {
	Commands  map[string]Handler
	Messages  []Handler
	Callbacks map[string]Handler
}

// Dispatch runs the handlers matching update and returns the first error.
func (h Handlers) Dispatch(s Sender, update tgbotapi.Update) error {
	if update.Message != nil && update.Message.IsCommand() {
		if handler, exists := h.Commands[update.Message.Command()]; exists {
			return handler(s, update)
		}
	}

	if update.CallbackQuery != nil {
		prefix, _, _ := strings.Cut(update.CallbackQuery.Data, ":")
		if handler, exists := h.Callbacks[prefix]; exists {
			return handler(s, update)
		}
		return nil
	}

	for _, handler := range h.Messages {
		if err := handler(s, update); err != nil {
			return err
		}
	}
	return nil
}

// Bot represents a configurable Telegram bot
type Bot struct {
	Client     *tgbotapi.BotAPI
	updateChan tgbotapi.UpdatesChannel
	name       string
}

// New creates a new bot instance
func New(name, token string) (*Bot, error) {
	botClient, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s bot: %w", name, err)
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updateChan := botClient.GetUpdatesChan(updateConfig)

	return &Bot{
		Client:     botClient,
		updateChan: updateChan,
		name:       name,
	}, nil
}

// Start processes updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context, handlers Handlers) {
	logger.Info(fmt.Sprintf("[%s] authorized on account %s", b.name, b.Client.Self.UserName))

	for {
		select {
		case update := <-b.updateChan:
			go func() {
				if err := handlers.Dispatch(b, update); err != nil {
					logger.Error(fmt.Sprintf("[%s] handler error: %v", b.name, err))
				}
			}()
		case <-ctx.Done():
			b.Client.StopReceivingUpdates()
			return
		}
	}
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.Client.Send(msg)
	return err
}

func (b *Bot) SendMessageWithMarkdown(chatID int64, text string, disableLinks bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = disableLinks
	_, err := b.Client.Send(msg)
	return err
}

func (b *Bot) SendMessageWithButtons(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	_, err := b.Client.Send(msg)
	return err
}
