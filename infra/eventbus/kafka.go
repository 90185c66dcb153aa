package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/splitpay/pkg/domain/events"
	"github.com/amirasaad/splitpay/pkg/eventbus"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const defaultTopicPrefix = "splitpay.events"

// KafkaEventBusConfig holds configuration for the Kafka event bus.
type KafkaEventBusConfig struct {
	GroupID      string
	TopicPrefix  string
	SASLUsername string
	SASLPassword string
}

// DefaultKafkaEventBusConfig returns default configuration for KafkaEventBus.
func DefaultKafkaEventBusConfig() *KafkaEventBusConfig {
	return &KafkaEventBusConfig{
		GroupID:     "splitpay",
		TopicPrefix: defaultTopicPrefix,
	}
}

// KafkaEventBus publishes each event type to its own topic
// ("<prefix>.<type>") and consumes with one reader per registered type.
// Messages whose handlers fail go to "<prefix>.dlq.<type>".
type KafkaEventBus struct {
	brokers []string
	writer  *kafka.Writer
	dialer  *kafka.Dialer
	config  *KafkaEventBusConfig
	logger  *slog.Logger

	handlers    map[events.EventType][]eventbus.HandlerFunc
	handlersMtx sync.RWMutex
	readers     map[events.EventType]*kafka.Reader
	readersMtx  sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithKafka creates a new Kafka-backed event bus.
// brokers: comma-separated list (e.g. "localhost:9092,localhost:9093").
func NewWithKafka(brokers string, logger *slog.Logger, config *KafkaEventBusConfig) (*KafkaEventBus, error) {
	parsedBrokers := parseBrokers(brokers)
	if len(parsedBrokers) == 0 {
		return nil, errors.New("kafka event bus: brokers are required")
	}
	config = withKafkaDefaults(config)

	dialer := &kafka.Dialer{Timeout: 5 * time.Second}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(parsedBrokers...),
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
	}
	if config.SASLUsername != "" {
		mechanism := plain.Mechanism{Username: config.SASLUsername, Password: config.SASLPassword}
		dialer.SASLMechanism = mechanism
		writer.Transport = &kafka.Transport{SASL: mechanism}
	}

	ctx, cancel := context.WithCancel(context.Background())
	bus := &KafkaEventBus{
		brokers:  parsedBrokers,
		writer:   writer,
		dialer:   dialer,
		config:   config,
		logger:   logger.With("bus", "kafka"),
		handlers: make(map[events.EventType][]eventbus.HandlerFunc),
		readers:  make(map[events.EventType]*kafka.Reader),
		ctx:      ctx,
		cancel:   cancel,
	}

	conn, err := dialer.DialContext(ctx, "tcp", parsedBrokers[0])
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("kafka event bus: connection failed: %w", err)
	}
	_ = conn.Close()

	bus.logger.Info("Kafka event bus initialized",
		"group_id", config.GroupID,
		"brokers", parsedBrokers,
		"sasl_enabled", dialer.SASLMechanism != nil,
	)
	return bus, nil
}

func withKafkaDefaults(config *KafkaEventBusConfig) *KafkaEventBusConfig {
	if config == nil {
		return DefaultKafkaEventBusConfig()
	}
	if config.GroupID == "" {
		config.GroupID = "splitpay"
	}
	if strings.TrimSpace(config.TopicPrefix) == "" {
		config.TopicPrefix = defaultTopicPrefix
	}
	return config
}

// Close stops consumers and flushes the writer.
func (b *KafkaEventBus) Close() error {
	b.cancel()
	b.readersMtx.Lock()
	for _, r := range b.readers {
		_ = r.Close()
	}
	b.readersMtx.Unlock()
	b.wg.Wait()
	return b.writer.Close()
}

// Register registers an event handler for a specific event type.
func (b *KafkaEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	b.handlersMtx.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.handlersMtx.Unlock()

	b.ensureConsumer(eventType)
}

// Emit publishes an event to the topic of its type.
func (b *KafkaEventBus) Emit(ctx context.Context, event events.Event) error {
	envBytes, err := encodeEnvelope(event)
	if err != nil {
		return fmt.Errorf("kafka event bus: %w", err)
	}
	msg := kafka.Message{
		Topic: topicNameFor(b.config.TopicPrefix, events.EventType(event.Type())),
		Key:   []byte(event.Type()),
		Value: envBytes,
		Time:  time.Now(),
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka event bus: publish failed: %w", err)
	}
	return nil
}

func (b *KafkaEventBus) ensureConsumer(eventType events.EventType) {
	b.readersMtx.Lock()
	defer b.readersMtx.Unlock()
	if _, exists := b.readers[eventType]; exists {
		return
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     b.brokers,
		GroupID:     b.config.GroupID,
		Topic:       topicNameFor(b.config.TopicPrefix, eventType),
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     time.Second,
		Dialer:      b.dialer,
	})
	b.readers[eventType] = reader

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.consumeLoop(eventType, reader)
	}()
}

func (b *KafkaEventBus) consumeLoop(eventType events.EventType, reader *kafka.Reader) {
	for {
		msg, err := reader.FetchMessage(b.ctx)
		if err != nil {
			if b.ctx.Err() != nil {
				return
			}
			b.logger.Error("kafka consume error", "error", err, "event_type", eventType)
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if !b.processMessage(b.ctx, eventType, msg) {
			if err := b.publishToDLQ(b.ctx, eventType, msg.Value); err != nil {
				b.logger.Error("kafka dlq publish failed; will retry", "error", err, "offset", msg.Offset)
				continue
			}
		}
		if err := reader.CommitMessages(b.ctx, msg); err != nil {
			b.logger.Error("kafka commit error", "error", err, "topic", msg.Topic, "offset", msg.Offset)
		}
	}
}

// processMessage reports whether msg was handled. Undecodable messages count
// as handled since retrying them cannot succeed.
func (b *KafkaEventBus) processMessage(ctx context.Context, eventType events.EventType, msg kafka.Message) bool {
	evt, err := decodeEnvelope(msg.Value)
	if err != nil {
		b.logger.Error("failed to decode event", "error", err, "topic", msg.Topic, "offset", msg.Offset)
		return true
	}

	b.handlersMtx.RLock()
	handlers := append([]eventbus.HandlerFunc(nil), b.handlers[eventType]...)
	b.handlersMtx.RUnlock()

	ok := true
	for _, h := range handlers {
		if err := h(ctx, evt); err != nil {
			ok = false
			b.logger.Error("handler error", "error", err, "event_type", eventType, "offset", msg.Offset)
		}
	}
	return ok
}

func (b *KafkaEventBus) publishToDLQ(ctx context.Context, eventType events.EventType, raw []byte) error {
	dlqTopic := dlqTopicNameFor(b.config.TopicPrefix, eventType)
	if err := b.writer.WriteMessages(ctx, kafka.Message{
		Topic: dlqTopic,
		Key:   []byte(eventType.String()),
		Value: raw,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("kafka event bus: dlq publish failed: %w", err)
	}
	b.logger.Warn("message sent to DLQ", "event_type", eventType, "dlq_topic", dlqTopic)
	return nil
}

func parseBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func topicNameFor(prefix string, eventType events.EventType) string {
	return fmt.Sprintf("%s.%s", prefix, strings.ToLower(eventType.String()))
}

func dlqTopicNameFor(prefix string, eventType events.EventType) string {
	return fmt.Sprintf("%s.dlq.%s", prefix, strings.ToLower(eventType.String()))
}

var _ eventbus.Bus = (*KafkaEventBus)(nil)
