// Package publisher writes value signals to a Redis stream so consumers
// that are not connected over WebSocket can still pick them up. Publishing
// is fire-and-forget like the snapshot store: a Redis outage never blocks
// signal computation.
package publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fortuna/vantage/internal/datalayer"
)

// signalStream is the stream key. One stream for all sports; consumers
// filter on the payload.
const signalStream = "vantage.signals"

// maxStreamLen bounds the stream; older entries are trimmed.
const maxStreamLen = 1000

// RedisPublisher publishes value signals to a Redis stream.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher connects to Redis and verifies the connection.
func NewRedisPublisher(redisURL string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisPublisher{client: client}, nil
}

// Close closes the Redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// Publish appends one signal to the stream. Failures are logged and
// swallowed; the WebSocket path and snapshot store are independent.
func (p *RedisPublisher) Publish(sig datalayer.Signal) {
	data, err := json.Marshal(sig)
	if err != nil {
		log.Printf("[publisher] failed to marshal signal: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: signalStream,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
	if err != nil {
		log.Printf("[publisher] failed to publish signal: %v", err)
	}
}
