package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionKeyPrefix namespaces session hashes in redis.
const sessionKeyPrefix = "console:session:"

// SessionRepository persists the durable key-value slots of a session. One
// hash per session: replacing the slots and clearing them are single-key
// operations, so logout clears every slot atomically.
type SessionRepository interface {
	Save(ctx context.Context, sessionID string, slots map[string]string, ttl time.Duration) error
	Load(ctx context.Context, sessionID string) (map[string]string, error)
	Clear(ctx context.Context, sessionID string) (bool, error)
}

type redisSessionRepository struct {
	client *redis.Client
}

// NewSessionRepository builds a redis-backed session repository.
func NewSessionRepository(client *redis.Client) SessionRepository {
	return &redisSessionRepository{client: client}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Save replaces the session hash with the given slots. DEL+HSET+EXPIRE run in
// one MULTI/EXEC so readers never observe a partial slot set.
func (r *redisSessionRepository) Save(ctx context.Context, sessionID string, slots map[string]string, ttl time.Duration) error {
	key := sessionKey(sessionID)
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(slots) > 0 {
		fields := make(map[string]any, len(slots))
		for k, v := range slots {
			fields[k] = v
		}
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return nil
}

// Load returns the session slots; a missing session yields an empty map.
func (r *redisSessionRepository) Load(ctx context.Context, sessionID string) (map[string]string, error) {
	slots, err := r.client.HGetAll(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return slots, nil
}

// Clear deletes the whole session hash in one operation and reports whether a
// hash was actually removed. Concurrent forced logouts race on this delete;
// only the caller whose delete removed the hash acts on the transition.
func (r *redisSessionRepository) Clear(ctx context.Context, sessionID string) (bool, error) {
	deleted, err := r.client.Del(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("clear session %s: %w", sessionID, err)
	}
	return deleted > 0, nil
}
