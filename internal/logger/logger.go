package logger

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sukalov/hymnal/internal/utils/e"
)

var (
	ChannelID int64
	mu        sync.RWMutex
	botClient BotClient
)

type BotClient interface {
	SendMessage(chatID int64, text string) error
}

// Init forwards log lines to the Telegram channel channelID through client.
// Until it is called, log lines go to the standard logger only.
func Init(client BotClient, channelID int64) {
	mu.Lock()
	defer mu.Unlock()
	botClient = client
	ChannelID = channelID
}

func Info(message string) {
	sendLog("ℹ️ INFO", message)
}

func Error(message string) {
	sendLog("❌ ERROR", message)
}

func Debug(message string) {
	sendLog("🔍 DEBUG", message)
}

func Success(message string) {
	sendLog("✅ SUCCESS", message)
}

func sendLog(prefix, message string) {
	log.Printf("%s %s", prefix, message)

	mu.RLock()
	client, channel := botClient, ChannelID
	mu.RUnlock()
	if client == nil {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	logMessage := fmt.Sprintf("[%s] %s\n%s", timestamp, prefix, message)

	go func() {
		if err := client.SendMessage(channel, logMessage); err != nil {
			log.Printf("failed to send log to channel: %v\nlog was: %s", err, logMessage)
		}
	}()
}

// LogWithErr logs message as info, or as an error when err is set, and
// returns err wrapped with message.
func LogWithErr(message string, err error) error {
	if err == nil {
		Info(message)
		return nil
	}

	Error(fmt.Sprintf("%s\nError: %v", message, err))
	return e.Wrap(message, err)
}
