package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/splitpay/pkg/domain/events"
	"github.com/amirasaad/splitpay/pkg/eventbus"
	"github.com/redis/go-redis/v9"
)

// RedisEventBusConfig configures the Redis Streams bus.
type RedisEventBusConfig struct {
	Stream string
	Group  string
	// Block bounds each XREADGROUP call so consumers notice Close.
	Block time.Duration
}

// DefaultRedisEventBusConfig returns the defaults used when no config is given.
func DefaultRedisEventBusConfig() *RedisEventBusConfig {
	return &RedisEventBusConfig{
		Stream: "splitpay:events",
		Group:  "splitpay",
		Block:  5 * time.Second,
	}
}

// RedisEventBus publishes events to a Redis stream and consumes them through
// one consumer group per event type. Failed messages are copied to "<stream>-DLQ".
type RedisEventBus struct {
	client *redis.Client
	config *RedisEventBusConfig
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// NewWithRedis connects to url and prepares the stream and consumer group.
func NewWithRedis(url string, logger *slog.Logger, config *RedisEventBusConfig) (*RedisEventBus, error) {
	if url == "" {
		return nil, errors.New("redis event bus: url is required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis event bus: invalid URL: %w", err)
	}
	return newRedisEventBus(redis.NewClient(opt), logger, config)
}

func newRedisEventBus(client *redis.Client, logger *slog.Logger, config *RedisEventBusConfig) (*RedisEventBus, error) {
	defaults := DefaultRedisEventBusConfig()
	if config == nil {
		config = defaults
	}
	if config.Stream == "" {
		config.Stream = defaults.Stream
	}
	if config.Group == "" {
		config.Group = defaults.Group
	}
	if config.Block <= 0 {
		config.Block = defaults.Block
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := client.Ping(ctx).Err(); err != nil {
		cancel()
		_ = client.Close()
		return nil, fmt.Errorf("redis event bus: connection failed: %w", err)
	}
	return &RedisEventBus{
		client: client,
		config: config,
		logger: logger.With("bus", "redis", "stream", config.Stream),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Emit appends the event to the stream.
func (b *RedisEventBus) Emit(ctx context.Context, event events.Event) error {
	envBytes, err := encodeEnvelope(event)
	if err != nil {
		return fmt.Errorf("redis event bus: %w", err)
	}
	if err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: b.config.Stream,
		Values: map[string]any{"event": string(envBytes)},
	}).Err(); err != nil {
		return fmt.Errorf("redis event bus: emit failed: %w", err)
	}
	b.logger.Debug("event emitted", "type", event.Type())
	return nil
}

// Register starts a consumer that calls handler for every event of eventType.
// Each event type reads through its own consumer group, so every type sees
// the whole stream; messages of other types are acknowledged and skipped.
func (b *RedisEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	group := b.groupFor(eventType)
	// BUSYGROUP just means another process created it first.
	_ = b.client.XGroupCreateMkStream(b.ctx, b.config.Stream, group, "0").Err()

	consumer := fmt.Sprintf("consumer-%s-%d", eventType, time.Now().UnixNano())
	b.logger.Info("registering handler", "event_type", eventType, "group", group, "consumer", consumer)
	go b.consume(eventType, group, consumer, handler)
}

func (b *RedisEventBus) groupFor(eventType events.EventType) string {
	return b.config.Group + ":" + eventType.String()
}

// Close stops all consumers and closes the client.
func (b *RedisEventBus) Close() error {
	b.cancel()
	return b.client.Close()
}

func (b *RedisEventBus) consume(eventType events.EventType, group, consumer string, handler eventbus.HandlerFunc) {
	for b.ctx.Err() == nil {
		res, err := b.client.XReadGroup(b.ctx, &redis.XReadGroupArgs{
			Group:    group,
			Consumer: consumer,
			Streams:  []string{b.config.Stream, ">"},
			Count:    10,
			Block:    b.config.Block,
		}).Result()
		if err != nil {
			if b.ctx.Err() != nil {
				return
			}
			if !errors.Is(err, redis.Nil) {
				b.logger.Error("error reading from stream", "error", err, "consumer", consumer)
				time.Sleep(time.Second)
			}
			continue
		}
		for _, stream := range res {
			for _, msg := range stream.Messages {
				b.handleMessage(eventType, msg, handler)
				if err := b.client.XAck(b.ctx, b.config.Stream, group, msg.ID).Err(); err != nil {
					b.logger.Error("failed to acknowledge message", "error", err, "msg_id", msg.ID)
				}
			}
		}
	}
}

func (b *RedisEventBus) handleMessage(eventType events.EventType, msg redis.XMessage, handler eventbus.HandlerFunc) {
	raw, ok := msg.Values["event"].(string)
	if !ok {
		b.pushToDLQ(msg.Values)
		return
	}
	evt, err := decodeEnvelope([]byte(raw))
	if err != nil {
		b.logger.Error("failed to decode event", "error", err, "msg_id", msg.ID)
		b.pushToDLQ(msg.Values)
		return
	}
	if events.EventType(evt.Type()) != eventType {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panic recovered", "panic", r, "event_type", eventType)
			b.pushToDLQ(msg.Values)
		}
	}()
	if err := handler(b.ctx, evt); err != nil {
		b.logger.Error("handler error", "error", err, "event_type", eventType)
		b.pushToDLQ(msg.Values)
	}
}

func (b *RedisEventBus) pushToDLQ(values map[string]any) {
	dlqStream := b.config.Stream + "-DLQ"
	if err := b.client.XAdd(b.ctx, &redis.XAddArgs{
		Stream: dlqStream,
		Values: values,
	}).Err(); err != nil {
		b.logger.Error("failed to push to DLQ", "error", err, "stream", dlqStream)
		return
	}
	b.logger.Warn("event pushed to DLQ", "stream", dlqStream)
}

var _ eventbus.Bus = (*RedisEventBus)(nil)
