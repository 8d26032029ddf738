package codes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/redis/go-redis/v9"
)

type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

func key(prefix, id string) string {
	return fmt.Sprintf("%s:%s", prefix, id)
}

// Get returns the code stored under prefix and id, for example a password
// reset code under the user email. A missing or expired code is
// returned as an empty Code.
func (s *Storage) Get(ctx context.Context, prefix, id string) (dto.Code, error) {
	codeData, err := s.redis.Get(ctx, key(prefix, id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return dto.Code{}, nil
		}
		return dto.Code{}, err
	}
	codeSlice := strings.Split(codeData, ":")
	if len(codeSlice) == 1 {
		return dto.Code{
			Code:        codeSlice[0],
			CodeContext: "",
		}, nil
	}

	if len(codeSlice) == 2 {
		return dto.Code{
			Code:        codeSlice[0],
			CodeContext: codeSlice[1],
		}, nil
	}

	return dto.Code{}, errorz.ErrInvalidCode
}

func (s *Storage) Set(ctx context.Context, prefix, id string, code string, codeContext string, expiration time.Duration) error {
	return s.redis.Set(ctx, key(prefix, id), fmt.Sprintf("%s:%s", code, codeContext), expiration).Err()
}

// Attempts returns the failed attempts counted under prefix and id.
func (s *Storage) Attempts(ctx context.Context, prefix, id string) (int64, error) {
	attempts, err := s.redis.Get(ctx, key(prefix, id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return attempts, err
}

// Attempt counts one failed attempt under prefix and id and returns the
// count so far. The counter expires window after the first attempt.
func (s *Storage) Attempt(ctx context.Context, prefix, id string, window time.Duration) (int64, error) {
	k := key(prefix, id)
	attempts, err := s.redis.Incr(ctx, k).Result()
	if err != nil {
		return 0, err
	}
	if attempts == 1 {
		if err = s.redis.Expire(ctx, k, window).Err(); err != nil {
			return attempts, err
		}
	}
	return attempts, nil
}

func (s *Storage) Clear(ctx context.Context, prefix, id string) error {
	return s.redis.Del(ctx, key(prefix, id)).Err()
}

func (s *Storage) Close() error {
	return s.redis.Close()
}
