package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage keeps the bearer token sessions. Every session key holds the user
// id, and a per user set tracks the sessions so they can be revoked at once.
type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func userKey(userID string) string {
	return fmt.Sprintf("user-sessions:%s", userID)
}

func (s *Storage) Set(ctx context.Context, sessionID, userID string, expiration time.Duration) error {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(sessionID), userID, expiration)
		pipe.SAdd(ctx, userKey(userID), sessionID)
		pipe.Expire(ctx, userKey(userID), expiration)
		return nil
	})
	return err
}

// Get returns the user id of the session, or an empty string when the
// session expired or was revoked.
func (s *Storage) Get(ctx context.Context, sessionID string) (string, error) {
	userID, err := s.redis.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return userID, nil
}

func (s *Storage) Clear(ctx context.Context, sessionID string) error {
	userID, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	pipe := s.redis.TxPipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	if userID != "" {
		pipe.SRem(ctx, userKey(userID), sessionID)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// ClearUser revokes every session of the user.
func (s *Storage) ClearUser(ctx context.Context, userID string) error {
	sessionIDs, err := s.redis.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(sessionIDs)+1)
	for _, sessionID := range sessionIDs {
		keys = append(keys, sessionKey(sessionID))
	}
	keys = append(keys, userKey(userID))
	return s.redis.Del(ctx, keys...).Err()
}

func (s *Storage) Close() error {
	return s.redis.Close()
}
