package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the part of *redis.Client the publisher needs.
type RedisClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisOptions configures DialRedis.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Channel  string
	// TTL of the :latest key; 0 keeps it forever.
	TTL time.Duration
}

// Redis publishes every snapshot on a pub/sub channel and stores the latest
// one under "<channel>:latest" for late subscribers.
type Redis struct {
	client  RedisClient
	channel string
	ttl     time.Duration
	closer  func() error
}

func NewRedis(client RedisClient, channel string, ttl time.Duration) *Redis {
	if channel == "" {
		channel = "sigtrader:snapshots"
	}
	return &Redis{client: client, channel: channel, ttl: ttl}
}

// DialRedis connects and pings the server.
func DialRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("publish: connect redis %s: %w", opts.Addr, err)
	}

	r := NewRedis(rdb, opts.Channel, opts.TTL)
	r.closer = rdb.Close
	return r, nil
}

func (r *Redis) Channel() string { return r.channel }

// LatestKey is where the most recent snapshot is stored.
func (r *Redis) LatestKey() string { return r.channel + ":latest" }

func (r *Redis) Publish(ctx context.Context, s Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("publish: marshal snapshot: %w", err)
	}

	if err := r.client.Set(ctx, r.LatestKey(), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("publish: redis set %s: %w", r.LatestKey(), err)
	}
	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		return fmt.Errorf("publish: redis publish %s: %w", r.channel, err)
	}
	return nil
}

func (r *Redis) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}
