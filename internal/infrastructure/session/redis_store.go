// Package session keeps the active login session per user in Redis hashes.
package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-places-api/internal/application"
)

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

var _ application.SessionStore = (*RedisStore)(nil)

// Put replaces the user's session, invalidating tokens bound to the previous one.
func (s *RedisStore) Put(ctx context.Context, sess application.Session, ttl time.Duration) error {
	key := sessionKey(sess.UserID)
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    sess.UserID,
		"email":      sess.Email,
		"name":       sess.Name,
		"sid":        sess.SessionID,
		"created_at": nowRFC3339(),
	})
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Get(ctx context.Context, userID string) (application.Session, error) {
	data, err := s.rdb.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return application.Session{}, err
	}
	if len(data) == 0 || data["sid"] == "" {
		return application.Session{}, application.ErrSessionNotFound
	}
	return application.Session{
		UserID:    data["user_id"],
		Email:     data["email"],
		Name:      data["name"],
		SessionID: data["sid"],
	}, nil
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, sessionKey(userID)).Err()
}
