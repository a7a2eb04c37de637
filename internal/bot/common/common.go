package common

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sukalov/hymnal/internal/bot"
)

const usage = `команды:
/song <язык> <номер> - песня с аккордами
/find <язык> <начало названия> - поиск по названию
/rebuild - пересобрать сайт`

// GetCommandHandlers returns the commands every user may run.
func GetCommandHandlers() map[string]bot.Handler {
	return map[string]bot.Handler{
		"start": helpHandler,
		"help":  helpHandler,
	}
}

// GetMessageHandlers answers plain messages with the command list.
func GetMessageHandlers() []bot.Handler {
	return []bot.Handler{
		func(s bot.Sender, update tgbotapi.Update) error {
			if update.Message == nil {
				return nil
			}
			return s.SendMessage(update.Message.Chat.ID, "ничего не понятно.\n\n"+usage)
		},
	}
}

// GetCallbackHandlers returns common callback handlers
func GetCallbackHandlers() map[string]bot.Handler {
	return map[string]bot.Handler{}
}

func helpHandler(s bot.Sender, update tgbotapi.Update) error {
	return s.SendMessage(update.Message.Chat.ID, usage)
}
