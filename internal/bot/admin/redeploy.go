package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sukalov/hymnal/internal/bot"
	"github.com/sukalov/hymnal/internal/logger"
)

// RebuildHook triggers a repository_dispatch that rebuilds the public
// songbook site.
type RebuildHook struct {
	URL    string
	Token  string
	Client *http.Client
}

// Trigger sends the dispatch event.
func (r *RebuildHook) Trigger(ctx context.Context) error {
	payload := map[string]any{
		"event_type": "rebuild-trigger",
		"client_payload": map[string]string{
			"unit": "rebuild triggered via telegram",
		},
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, bytes.NewReader(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Authorization", "token "+r.Token)
	req.Header.Set("Content-Type", "application/json")

	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request to github failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	default:
		return fmt.Errorf("github returned status %d: %s", resp.StatusCode, body)
	}
}

func (h *AdminHandlers) rebuildHandler(s bot.Sender, update tgbotapi.Update) error {
	chatID := update.Message.Chat.ID
	if !h.isAdmin(update.Message.From) {
		return s.SendMessage(chatID, "вы не админ")
	}
	if h.rebuild == nil || h.rebuild.URL == "" || h.rebuild.Token == "" {
		return s.SendMessage(chatID, "ошибка: не настроены webhook url или токен")
	}

	if err := h.rebuild.Trigger(context.Background()); err != nil {
		logger.Error(fmt.Sprintf("rebuild failed\nError: %v", err))
		return s.SendMessage(chatID, fmt.Sprintf("ошибка: %v", err))
	}
	return s.SendMessage(chatID, "запущен процесс пересборки сайта")
}
