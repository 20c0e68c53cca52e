package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/wallhub-backend/config"
	"github.com/ikkim/wallhub-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection")
		return client.Close()
	}
	return nil
}

// Store token blacklist and view throttle on top of a Redis client
type Store struct {
	client *redis.Client
}

func NewStore(c *redis.Client) *Store {
	return &Store{client: c}
}

// Default wraps the client created by Init
func Default() *Store {
	return NewStore(client)
}

func blacklistKey(token string) string {
	return fmt.Sprintf("blacklist:%s", token)
}

// BlacklistToken adds a token to the blacklist until it would have expired anyway
func (s *Store) BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	logger.Debug("Adding token to blacklist", map[string]interface{}{
		"expiry": expiry.String(),
	})

	if err := s.client.Set(ctx, blacklistKey(token), "revoked", expiry).Err(); err != nil {
		logger.Error("Failed to blacklist token", err)
		return err
	}
	return nil
}

// IsTokenBlacklisted checks if a token is in the blacklist
func (s *Store) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	_, err := s.client.Get(ctx, blacklistKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err)
		return false, err
	}
	return true, nil
}

// MarkViewed returns true only for the first view of key within ttl
func (s *Store) MarkViewed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	first, err := s.client.SetNX(ctx, "viewed:"+key, 1, ttl).Result()
	if err != nil {
		logger.Error("Failed to mark view", err, map[string]interface{}{
			"key": key,
		})
		return false, err
	}
	return first, nil
}
