// Package cache provides seen-question tracking for the question
// generator, with in-memory and Redis drivers behind one factory.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mockmate/interview"
)

// Common errors for cache construction.
var (
	ErrInvalidConfig = errors.New("cache: invalid configuration")
	ErrInvalidType   = errors.New("cache: invalid store type")
)

// Type selects a cache driver.
type Type string

const (
	TypeMemory Type = "memory"
	TypeRedis  Type = "redis"
)

const defaultTTL = 24 * time.Hour

// Store is a question cache that owns resources.
type Store interface {
	interview.QuestionCache
	Close() error
}

// Option is a functional option for configuring a cache store.
type Option func(*config)

type config struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// WithRedisClient sets the Redis client for the Redis driver.
func WithRedisClient(client *redis.Client) Option {
	return func(c *config) {
		c.redisClient = client
	}
}

// WithTTL sets how long seen questions are remembered (Redis only).
func WithTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.ttl = ttl
	}
}

// New creates a cache store of the given type. The Redis driver
// requires WithRedisClient.
func New(t Type, opts ...Option) (Store, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	switch t {
	case TypeMemory:
		return &memoryStore{seen: make(map[string]map[string]bool)}, nil

	case TypeRedis:
		if cfg.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		ttl := cfg.ttl
		if ttl <= 0 {
			ttl = defaultTTL
		}
		return &redisStore{client: cfg.redisClient, ttl: ttl}, nil

	default:
		return nil, ErrInvalidType
	}
}

// memoryStore tracks seen questions in a map keyed by role/level.
type memoryStore struct {
	mu   sync.RWMutex
	seen map[string]map[string]bool
}

func (s *memoryStore) Seen(ctx context.Context, key, question string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seen[key][question], nil
}

func (s *memoryStore) Remember(ctx context.Context, key string, questions ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.seen[key]
	if !ok {
		set = make(map[string]bool)
		s.seen[key] = set
	}
	for _, q := range questions {
		set[q] = true
	}
	return nil
}

func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = nil
	return nil
}

// redisStore tracks seen questions in per-key Redis sets with a TTL.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

const keyPrefix = "questions:"

func (s *redisStore) Seen(ctx context.Context, key, question string) (bool, error) {
	return s.client.SIsMember(ctx, keyPrefix+key, question).Result()
}

func (s *redisStore) Remember(ctx context.Context, key string, questions ...string) error {
	if len(questions) == 0 {
		return nil
	}

	members := make([]any, 0, len(questions))
	for _, q := range questions {
		members = append(members, q)
	}

	rkey := keyPrefix + key
	if err := s.client.SAdd(ctx, rkey, members...).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, rkey, s.ttl).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
