package preserve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each save under one key, save:<path>:<name>
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store on an existing client. A zero ttl keeps saves forever.
func NewRedisStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStore{client: client, ttl: ttl, logger: logger}
}

// NewRedisStoreFromURL parses a redis:// URL and connects lazily
func NewRedisStoreFromURL(url string, ttl time.Duration, logger *slog.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisStore(redis.NewClient(opts), ttl, logger), nil
}

// Key is the redis key of a save
func (s *RedisStore) Key(loc Location) string {
	return "save:" + loc.Path + ":" + loc.Name
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return IOError(err, "redis ping failed")
	}
	return nil
}

func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		s.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	return nil
}

func (s *RedisStore) Exists(ctx context.Context, loc Location) (bool, error) {
	n, err := s.client.Exists(ctx, s.Key(loc)).Result()
	if err != nil {
		return false, IOError(err, "failed to check save %s", loc)
	}
	return n > 0, nil
}

func (s *RedisStore) Create(ctx context.Context, loc Location, data []byte) error {
	ok, err := s.client.SetNX(ctx, s.Key(loc), data, s.ttl).Result()
	if err != nil {
		s.logger.Error("Failed to create save", "key", s.Key(loc), "error", err)
		return IOError(err, "failed to create save %s", loc)
	}
	if !ok {
		return AlreadyExists(loc)
	}
	return nil
}

func (s *RedisStore) Write(ctx context.Context, loc Location, data []byte) error {
	if err := s.client.Set(ctx, s.Key(loc), data, s.ttl).Err(); err != nil {
		s.logger.Error("Failed to write save", "key", s.Key(loc), "error", err)
		return IOError(err, "failed to write save %s", loc)
	}
	return nil
}

func (s *RedisStore) Read(ctx context.Context, loc Location) ([]byte, error) {
	data, err := s.client.Get(ctx, s.Key(loc)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, NotFound("save %s does not exist", loc)
		}
		s.logger.Error("Failed to read save", "key", s.Key(loc), "error", err)
		return nil, IOError(err, "failed to read save %s", loc)
	}
	return data, nil
}

func (s *RedisStore) Delete(ctx context.Context, loc Location) error {
	n, err := s.client.Del(ctx, s.Key(loc)).Result()
	if err != nil {
		return IOError(err, "failed to delete save %s", loc)
	}
	if n == 0 {
		return NotFound("save %s does not exist", loc)
	}
	return nil
}
