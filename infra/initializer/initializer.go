// Package initializer builds the process dependencies from configuration.
package initializer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/amirasaad/splitpay/infra"
	infraeventbus "github.com/amirasaad/splitpay/infra/eventbus"
	infrarepo "github.com/amirasaad/splitpay/infra/repository"
	"github.com/amirasaad/splitpay/pkg/app"
	"github.com/amirasaad/splitpay/pkg/config"
	"github.com/amirasaad/splitpay/pkg/eventbus"
	"github.com/amirasaad/splitpay/pkg/telemetry"
)

// InitializeDependencies connects the database and the event bus and sets
// up logging and metrics.
func InitializeDependencies(cfg *config.App) (*app.Deps, error) {
	logger := SetupLogger(cfg.Log)

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}

	bus, err := initEventBus(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &app.Deps{
		Uow:      infrarepo.NewUoW(db),
		EventBus: bus,
		Metrics:  telemetry.NewDefaultMetrics(),
		Logger:   logger,
	}, nil
}

// Close releases the event bus connections held by deps.
func Close(deps *app.Deps) error {
	if c, ok := deps.EventBus.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// initEventBus picks the bus named by EVENT_BUS_DRIVER. A configured but
// unreachable broker degrades to the in-memory bus, since notifications are
// best effort and must not keep the service from starting.
func initEventBus(cfg *config.App, logger *slog.Logger) (eventbus.Bus, error) {
	ebc := cfg.EventBus
	if ebc == nil || ebc.Driver == "" || ebc.Driver == "memory" {
		return infraeventbus.NewWithMemory(logger), nil
	}

	switch ebc.Driver {
	case "redis":
		if ebc.Redis == nil || ebc.Redis.URL == "" {
			return nil, errors.New("EVENT_BUS_REDIS_URL is required for the redis driver")
		}
		bus, err := infraeventbus.NewWithRedis(ebc.Redis.URL, logger, &infraeventbus.RedisEventBusConfig{
			Stream: ebc.Redis.Stream,
			Group:  ebc.Redis.Group,
		})
		if err != nil {
			logger.Warn("Redis event bus unavailable, using in-memory bus", "error", err)
			return infraeventbus.NewWithMemory(logger), nil
		}
		return bus, nil
	case "kafka":
		if ebc.Kafka == nil || ebc.Kafka.Brokers == "" {
			return nil, errors.New("EVENT_BUS_KAFKA_BROKERS is required for the kafka driver")
		}
		bus, err := infraeventbus.NewWithKafka(ebc.Kafka.Brokers, logger, &infraeventbus.KafkaEventBusConfig{
			GroupID:      ebc.Kafka.GroupID,
			TopicPrefix:  ebc.Kafka.TopicPrefix,
			SASLUsername: ebc.Kafka.SASLUsername,
			SASLPassword: ebc.Kafka.SASLPassword,
		})
		if err != nil {
			logger.Warn("Kafka event bus unavailable, using in-memory bus", "error", err)
			return infraeventbus.NewWithMemory(logger), nil
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("unknown event bus driver %q", ebc.Driver)
	}
}
