package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fakhrymubarak/weather-widget/internal/config"
	"github.com/fakhrymubarak/weather-widget/internal/redis"
	redisv9 "github.com/redis/go-redis/v9"
)

// GenerationRepository numbers the searches of a session so that a finished
// search can tell whether a newer one has started since.
type GenerationRepository interface {
	Next(ctx context.Context, session string) (int64, error)
	IsCurrent(ctx context.Context, session string, generation int64) (bool, error)
}

// redisCommands is the part of the go-redis client the generation store uses.
type redisCommands interface {
	Incr(ctx context.Context, key string) *redisv9.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redisv9.BoolCmd
	Get(ctx context.Context, key string) *redisv9.StringCmd
}

type generationRepository struct {
	redisClient redisCommands
	ttl         time.Duration
}

// NewGenerationRepository stores counters in the shared Redis client unless one is given.
func NewGenerationRepository(client ...*redisv9.Client) GenerationRepository {
	var c redisCommands = redis.GetClient()
	if len(client) > 0 && client[0] != nil {
		c = client[0]
	}
	return &generationRepository{
		redisClient: c,
		ttl:         config.GetGenerationTTL(),
	}
}

func generationKey(session string) string {
	return "search:generation:" + session
}

// Next starts a new search for the session and returns its generation.
func (r *generationRepository) Next(ctx context.Context, session string) (int64, error) {
	key := generationKey(session)
	gen, err := r.redisClient.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("increment %s: %w", key, err)
	}
	if err := r.redisClient.Expire(ctx, key, r.ttl).Err(); err != nil {
		return 0, fmt.Errorf("expire %s: %w", key, err)
	}
	return gen, nil
}

// IsCurrent reports whether generation is still the latest search of the session.
// An expired counter means nothing newer has started.
func (r *generationRepository) IsCurrent(ctx context.Context, session string, generation int64) (bool, error) {
	val, err := r.redisClient.Get(ctx, generationKey(session)).Result()
	if errors.Is(err, redisv9.Nil) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	latest, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse generation %q: %w", val, err)
	}
	return latest <= generation, nil
}
