package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/folio-labs/portfolio-backend/internal/chat/domain"
)

const (
	sessionKeyPrefix = "portfolio:chat:" // List of JSON turns: portfolio:chat:{session_id}
	sessionTTL       = 24 * time.Hour    // Refreshed on every append
	maxStoredTurns   = 40                // Oldest turns are trimmed beyond this
)

// SessionRepository stores chat history in Redis lists.
type SessionRepository struct {
	client redis.UniversalClient
}

func NewSessionRepository(client redis.UniversalClient) *SessionRepository {
	return &SessionRepository{client: client}
}

func (r *SessionRepository) sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// History returns up to the last n turns, oldest first. n <= 0 returns
// everything stored.
func (r *SessionRepository) History(ctx context.Context, id string, n int) ([]domain.Turn, error) {
	start := int64(0)
	if n > 0 {
		start = int64(-n)
	}
	raw, err := r.client.LRange(ctx, r.sessionKey(id), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	turns := make([]domain.Turn, 0, len(raw))
	for _, item := range raw {
		var t domain.Turn
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chat turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}

// Append adds turns to the session and refreshes its TTL in one pipeline.
func (r *SessionRepository) Append(ctx context.Context, id string, turns ...domain.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	values := make([]any, len(turns))
	for i, t := range turns {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to marshal chat turn: %w", err)
		}
		values[i] = data
	}

	key := r.sessionKey(id)
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, -maxStoredTurns, -1)
	pipe.Expire(ctx, key, sessionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Delete removes a session. It reports whether the session existed.
func (r *SessionRepository) Delete(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Del(ctx, r.sessionKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return n > 0, nil
}
