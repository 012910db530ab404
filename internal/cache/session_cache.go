package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pkgr6286/aegis-sub002/internal/model"
	"github.com/pkgr6286/aegis-sub002/internal/screening"
)

// SessionCache handles Redis operations for live screening-session state:
// the incrementally-built answer map, the navigation position, and the
// unconfirmed fast-path extraction. Everything here is cleared or
// superseded once the session is submitted.
type SessionCache interface {
	// Answer map
	SetAnswer(ctx context.Context, sessionID, questionID string, v screening.Value) error
	GetAnswers(ctx context.Context, sessionID string) (screening.AnswerMap, error)
	ClearAnswers(ctx context.Context, sessionID string) error

	// Navigation state
	SetNavState(ctx context.Context, sessionID string, st *screening.State) error
	GetNavState(ctx context.Context, sessionID string) (*screening.State, error)

	// Fast-path pending extraction (held until explicit accept/reject)
	SetPending(ctx context.Context, sessionID string, pending *model.FastPathPending) error
	GetPending(ctx context.Context, sessionID string) (*model.FastPathPending, error)
	ClearPending(ctx context.Context, sessionID string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a new session cache
func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

// Key helpers
func (c *sessionCache) answersKey(sessionID string) string {
	return fmt.Sprintf("screening:%s:answers", sessionID)
}

func (c *sessionCache) navKey(sessionID string) string {
	return fmt.Sprintf("screening:%s:nav", sessionID)
}

func (c *sessionCache) pendingKey(sessionID string) string {
	return fmt.Sprintf("screening:%s:fastpath:pending", sessionID)
}

func (c *sessionCache) SetAnswer(ctx context.Context, sessionID, questionID string, v screening.Value) error {
	key := c.answersKey(sessionID)
	if v.IsEmpty() {
		return c.client.HDel(ctx, key, questionID).Err()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := c.client.HSet(ctx, key, questionID, data).Err(); err != nil {
		return err
	}
	return c.client.Expire(ctx, key, c.ttl).Err()
}

func (c *sessionCache) GetAnswers(ctx context.Context, sessionID string) (screening.AnswerMap, error) {
	data, err := c.client.HGetAll(ctx, c.answersKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}
	answers := make(screening.AnswerMap, len(data))
	for questionID, raw := range data {
		var v screening.Value
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			continue
		}
		answers[questionID] = v
	}
	return answers, nil
}

func (c *sessionCache) ClearAnswers(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, c.answersKey(sessionID)).Err()
}

func (c *sessionCache) SetNavState(ctx context.Context, sessionID string, st *screening.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.navKey(sessionID), data, c.ttl).Err()
}

func (c *sessionCache) GetNavState(ctx context.Context, sessionID string) (*screening.State, error) {
	data, err := c.client.Get(ctx, c.navKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var st screening.State
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *sessionCache) SetPending(ctx context.Context, sessionID string, pending *model.FastPathPending) error {
	data, err := json.Marshal(pending)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.pendingKey(sessionID), data, c.ttl).Err()
}

func (c *sessionCache) GetPending(ctx context.Context, sessionID string) (*model.FastPathPending, error) {
	data, err := c.client.Get(ctx, c.pendingKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var pending model.FastPathPending
	if err := json.Unmarshal([]byte(data), &pending); err != nil {
		return nil, err
	}
	return &pending, nil
}

func (c *sessionCache) ClearPending(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, c.pendingKey(sessionID)).Err()
}
