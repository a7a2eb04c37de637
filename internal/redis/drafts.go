package redis

import (
	"context"
	"errors"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// NewSessionID returns an identifier for an edit session.
func NewSessionID() string {
	return uuid.NewString()
}

// SaveDraft keeps the editor html of a session so a failed submission can be
// retried without retyping.
func (redis *DBManager) SaveDraft(ctx context.Context, sessionID, html string) error {
	return redis.client.Set(ctx, draftKey(sessionID), html, redis.draftTTL).Err()
}

func (redis *DBManager) GetDraft(ctx context.Context, sessionID string) (string, bool, error) {
	html, err := redis.client.Get(ctx, draftKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redisClient.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return html, true, nil
}

func (redis *DBManager) DeleteDraft(ctx context.Context, sessionID string) error {
	return redis.client.Del(ctx, draftKey(sessionID)).Err()
}
