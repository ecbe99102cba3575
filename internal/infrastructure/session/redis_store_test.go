package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/oksasatya/go-places-api/internal/application"
	"github.com/oksasatya/go-places-api/pkg/helpers"
)

// Needs a disposable Redis, e.g. PLACES_TEST_REDIS_ADDR=localhost:6379
func newTestStore(t *testing.T) *RedisStore {
	t.Helper()
	addr := os.Getenv("PLACES_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PLACES_TEST_REDIS_ADDR not set")
	}
	rdb := helpers.NewRedisClient(addr, "", 15)
	t.Cleanup(func() { _ = rdb.Close() })
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return NewRedisStore(rdb)
}

func TestRedisStore_PutGetDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sess := application.Session{UserID: "u-test", Email: "a@b.c", Name: "Ada", SessionID: "sid-1"}

	if err := s.Put(ctx, sess, time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Get(ctx, "u-test")
	if err != nil || got != sess {
		t.Fatalf("get = %+v, %v", got, err)
	}

	sess.SessionID = "sid-2"
	if err := s.Put(ctx, sess, time.Minute); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, _ = s.Get(ctx, "u-test")
	if got.SessionID != "sid-2" {
		t.Fatalf("session not replaced: %+v", got)
	}

	if err := s.Delete(ctx, "u-test"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "u-test"); !errors.Is(err, application.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
