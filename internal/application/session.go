package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is server-held authentication state. It is keyed by an opaque
// session id, not by the username, so renaming a user cannot orphan it;
// a rename only rewrites the Username field.
type Session struct {
	ID       string
	UserID   string
	Username string
}

// SessionStore creates, resolves and revokes sessions. The JWT cookies
// carry the session id; the store is the authority on whether it is
// still live.
type SessionStore interface {
	Create(ctx context.Context, userID, username string) (string, error)
	Get(ctx context.Context, sid string) (*Session, error)
	Rename(ctx context.Context, sid, username string) error
	Delete(ctx context.Context, sid string) error
}

// RedisSessionStore keeps sessions as redis hashes under session:<sid>.
// The TTL is set once at creation and is not extended by reads; an idle
// or long-lived session expires SESSION_TTL after login.
type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{Client: client, TTL: ttl}
}

func sessionKey(sid string) string {
	return "session:" + sid
}

func (s *RedisSessionStore) Create(ctx context.Context, userID, username string) (string, error) {
	sid := uuid.NewString()
	key := sessionKey(sid)
	pipe := s.Client.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    userID,
		"username":   username,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, s.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return sid, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, sid string) (*Session, error) {
	data, err := s.Client.HGetAll(ctx, sessionKey(sid)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrSessionNotFound
	}
	return &Session{ID: sid, UserID: data["user_id"], Username: data["username"]}, nil
}

func (s *RedisSessionStore) Rename(ctx context.Context, sid, username string) error {
	key := sessionKey(sid)
	n, err := s.Client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return s.Client.HSet(ctx, key, "username", username).Err()
}

func (s *RedisSessionStore) Delete(ctx context.Context, sid string) error {
	return s.Client.Del(ctx, sessionKey(sid)).Err()
}

var _ SessionStore = (*RedisSessionStore)(nil)
