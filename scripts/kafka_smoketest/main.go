// Command kafka_smoketest publishes one MoneyTransferred event through the
// Kafka event bus and waits until the bus delivers it back to a handler.
// It checks a local broker setup before running the server with
// EVENT_BUS_DRIVER=kafka.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	infraeventbus "github.com/amirasaad/splitpay/infra/eventbus"
	"github.com/amirasaad/splitpay/pkg/domain/events"
	"github.com/amirasaad/splitpay/pkg/eventbus"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	brokers := strings.TrimSpace(os.Getenv("BROKERS"))
	if brokers == "" {
		brokers = "localhost:9092"
	}
	bus, err := infraeventbus.NewWithKafka(brokers, logger, &infraeventbus.KafkaEventBusConfig{
		GroupID:     "splitpay-smoketest-" + uuid.NewString()[:8],
		TopicPrefix: "splitpay.smoketest",
	})
	if err != nil {
		logger.Error("kafka unavailable", "error", err)
		os.Exit(1)
	}
	defer func() { _ = bus.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := roundTrip(ctx, bus); err != nil {
		logger.Error("kafka smoke test failed", "error", err)
		os.Exit(1)
	}
	logger.Info("kafka smoke test passed")
}

// roundTrip emits a MoneyTransferred event on bus and waits for a handler to
// receive the same event id.
func roundTrip(ctx context.Context, bus eventbus.Bus) error {
	sent := events.NewMoneyTransferred(uuid.New(), "031473063921",
		[]string{"089931674169"}, decimal.RequireFromString("0.01"), decimal.RequireFromString("0.01"))

	received := make(chan uuid.UUID, 1)
	bus.Register(events.EventTypeMoneyTransferred, func(_ context.Context, e events.Event) error {
		mt, ok := e.(*events.MoneyTransferred)
		if !ok {
			return fmt.Errorf("unexpected event %T", e)
		}
		select {
		case received <- mt.ID:
		default:
		}
		return nil
	})

	if err := bus.Emit(ctx, sent); err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	for {
		select {
		case id := <-received:
			if id == sent.ID {
				return nil
			}
		case <-ctx.Done():
			return errors.New("timed out waiting for the event")
		}
	}
}
