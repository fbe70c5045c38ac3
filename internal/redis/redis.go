package redis

import (
	"context"
	"sync"

	"github.com/fakhrymubarak/weather-widget/internal/config"
	redisv9 "github.com/redis/go-redis/v9"
)

var (
	client *redisv9.Client
	once   sync.Once
)

// GetClient returns the shared client. Connections are opened lazily on first command.
func GetClient() *redisv9.Client {
	once.Do(func() {
		client = redisv9.NewClient(&redisv9.Options{
			Addr:     config.GetRedisAddr(),
			Password: config.GetRedisPassword(),
			DB:       config.GetRedisDB(),
		})
	})
	return client
}

// Ping checks connectivity to the configured server.
func Ping(ctx context.Context) error {
	return GetClient().Ping(ctx).Err()
}

// Close releases the shared client if it was created.
func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}

// ResetClientForTest resets the Redis client singleton. Use only in tests.
func ResetClientForTest() {
	once = sync.Once{}
	client = nil
}
