package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gimmeapp/auth-service/pkg/helpers"
)

// CodeStore holds pending email verification codes with expiry. Get returns
// the empty string when no code is pending.
type CodeStore interface {
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Del(ctx context.Context, email string) error
}

// RedisCodeStore keeps codes under verification:<email> with a TTL.
type RedisCodeStore struct {
	Redis *redis.Client
}

func NewRedisCodeStore(rdb *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{Redis: rdb}
}

var _ CodeStore = (*RedisCodeStore)(nil)

func (s *RedisCodeStore) Save(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.Redis.Set(ctx, helpers.KeyEmailVerification(email), code, ttl).Err()
}

func (s *RedisCodeStore) Get(ctx context.Context, email string) (string, error) {
	v, err := s.Redis.Get(ctx, helpers.KeyEmailVerification(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *RedisCodeStore) Del(ctx context.Context, email string) error {
	return s.Redis.Del(ctx, helpers.KeyEmailVerification(email)).Err()
}
