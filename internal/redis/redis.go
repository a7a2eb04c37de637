package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisClient "github.com/go-redis/redis/v8"

	"github.com/sukalov/hymnal/internal/songs"
)

const songCacheTTL = time.Hour

type DBManager struct {
	client   *redisClient.Client
	draftTTL time.Duration
}

// NewDBManager connects to the TLS redis endpoint at addr.
func NewDBManager(addr, password string, draftTTL time.Duration) (*DBManager, error) {
	opt, err := redisClient.ParseURL(fmt.Sprintf("rediss://default:%s@%s", password, addr))
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return NewFromClient(redisClient.NewClient(opt), draftTTL), nil
}

func NewFromClient(client *redisClient.Client, draftTTL time.Duration) *DBManager {
	return &DBManager{client: client, draftTTL: draftTTL}
}

func (redis *DBManager) Ping(ctx context.Context) error {
	return redis.client.Ping(ctx).Err()
}

func (redis *DBManager) Close() error {
	return redis.client.Close()
}

func songKey(language string, number int) string {
	return fmt.Sprintf("song:%s:%d", language, number)
}

func draftKey(sessionID string) string {
	return "draft:" + sessionID
}

// CacheSong stores a decoded song for read-through lookups.
func (redis *DBManager) CacheSong(ctx context.Context, song songs.Song) error {
	songJSON, err := json.Marshal(song)
	if err != nil {
		return err
	}
	return redis.client.Set(ctx, songKey(song.Language, song.Number), songJSON, songCacheTTL).Err()
}

// CachedSong returns the cached song, with ok false on a miss.
func (redis *DBManager) CachedSong(ctx context.Context, language string, number int) (songs.Song, bool, error) {
	data, err := redis.client.Get(ctx, songKey(language, number)).Bytes()
	if err != nil {
		if errors.Is(err, redisClient.Nil) {
			return songs.Song{}, false, nil
		}
		return songs.Song{}, false, err
	}
	var song songs.Song
	if err := json.Unmarshal(data, &song); err != nil {
		return songs.Song{}, false, err
	}
	return song, true, nil
}

func (redis *DBManager) InvalidateSong(ctx context.Context, language string, number int) error {
	return redis.client.Del(ctx, songKey(language, number)).Err()
}
