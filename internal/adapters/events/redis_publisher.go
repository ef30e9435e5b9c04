// Package events publishes committed quote mutations to Redis pub/sub.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen/quoteguard/internal/platform/config"
	"github.com/jsamuelsen/quoteguard/internal/ports"
)

// ErrNotInitialized is returned when the publisher has no Redis client.
var ErrNotInitialized = errors.New("redis publisher not initialized")

// envelope is the message written to the channel.
type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// RedisPublisher implements ports.EventPublisher and ports.HealthChecker.
type RedisPublisher struct {
	rdb     redis.UniversalClient
	channel string
}

// NewRedisPublisher connects to Redis and verifies the connection with a ping.
func NewRedisPublisher(ctx context.Context, cfg *config.RedisConfig) (*RedisPublisher, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedisPublisherFromClient(rdb, cfg.Channel), nil
}

// NewRedisPublisherFromClient wraps an existing client.
func NewRedisPublisherFromClient(rdb redis.UniversalClient, channel string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel}
}

// Publish implements ports.EventPublisher.
func (p *RedisPublisher) Publish(ctx context.Context, event ports.Event) error {
	if p == nil || p.rdb == nil {
		return ErrNotInitialized
	}

	raw, err := json.Marshal(envelope{Type: event.EventType(), Payload: event.Payload()})
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", event.EventType(), err)
	}

	if err := p.rdb.Publish(ctx, p.channel, raw).Err(); err != nil {
		return fmt.Errorf("publishing %s event: %w", event.EventType(), err)
	}

	return nil
}

// Name implements ports.HealthChecker.
func (p *RedisPublisher) Name() string { return "redis" }

// Check implements ports.HealthChecker.
func (p *RedisPublisher) Check(ctx context.Context) error {
	if p == nil || p.rdb == nil {
		return ErrNotInitialized
	}

	return p.rdb.Ping(ctx).Err()
}

// Close releases the Redis connection pool.
func (p *RedisPublisher) Close() error {
	if p == nil || p.rdb == nil {
		return nil
	}

	return p.rdb.Close()
}
