// Package transfer provides the split transfer use case: validate a request
// against the sender's current balance, apply it atomically, then announce it.
package transfer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/splitpay/pkg/config"
	"github.com/amirasaad/splitpay/pkg/domain/events"
	"github.com/amirasaad/splitpay/pkg/domain/transfer"
	"github.com/amirasaad/splitpay/pkg/eventbus"
	"github.com/amirasaad/splitpay/pkg/repository"
	"github.com/amirasaad/splitpay/pkg/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultTimeout bounds ExecuteTransfer when no configuration is given.
const DefaultTimeout = 5 * time.Second

// Service orchestrates the Validator and the Engine.
type Service struct {
	uow     repository.UnitOfWork
	engine  *Engine
	bus     eventbus.Bus
	metrics *telemetry.Metrics
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a Service. bus and metrics may be nil.
func New(
	uow repository.UnitOfWork,
	bus eventbus.Bus,
	metrics *telemetry.Metrics,
	cfg *config.Transfer,
	logger *slog.Logger,
) *Service {
	batchSize, timeout := DefaultBatchSize, DefaultTimeout
	if cfg != nil {
		if cfg.BatchSize > 0 {
			batchSize = cfg.BatchSize
		}
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
	}
	logger = logger.With("service", "transfer")
	return &Service{
		uow:     uow,
		engine:  NewEngine(uow, batchSize, logger),
		bus:     bus,
		metrics: metrics,
		timeout: timeout,
		logger:  logger,
	}
}

// ValidateAndPrepareTransfer loads the sender and checks the request against
// it. Nothing is written.
func (s *Service) ValidateAndPrepareTransfer(
	ctx context.Context,
	senderID uuid.UUID,
	recipients []string,
	amount decimal.Decimal,
) (*transfer.Validated, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, transfer.StorageFailure(err)
	}
	sender, err := repo.Get(ctx, senderID)
	if err != nil {
		return nil, classify(err)
	}
	return transfer.NewValidator(repo).Validate(ctx, sender, recipients, amount)
}

// ExecuteTransfer applies v within the configured timeout and publishes a
// MoneyTransferred event once committed. Publishing failures are logged and
// do not affect the result.
func (s *Service) ExecuteTransfer(
	ctx context.Context,
	senderID uuid.UUID,
	v *transfer.Validated,
) (*transfer.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.engine.Execute(ctx, senderID, v)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, result)
	return result, nil
}

// Transfer validates and executes in one call.
func (s *Service) Transfer(
	ctx context.Context,
	senderID uuid.UUID,
	recipients []string,
	amount decimal.Decimal,
) (result *transfer.Result, err error) {
	start := time.Now()
	defer func() { s.observe(start, result, err) }()

	v, err := s.ValidateAndPrepareTransfer(ctx, senderID, recipients, amount)
	if err != nil {
		s.logger.Info("transfer rejected", "sender_id", senderID, "error", err)
		return nil, err
	}
	return s.ExecuteTransfer(ctx, senderID, v)
}

func (s *Service) publish(ctx context.Context, r *transfer.Result) {
	if s.bus == nil {
		return
	}
	evt := events.NewMoneyTransferred(r.SenderID, r.SenderINN, r.Recipients, r.AmountPerRecipient, r.TotalDebit)
	outcome := "ok"
	if err := s.bus.Emit(context.WithoutCancel(ctx), evt); err != nil {
		outcome = "error"
		s.logger.Error("failed to emit event", "type", evt.Type(), "event_id", evt.ID, "error", err)
	}
	if s.metrics != nil {
		s.metrics.EventsEmittedTotal.WithLabelValues(evt.Type(), outcome).Inc()
	}
}

func (s *Service) observe(start time.Time, r *transfer.Result, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.TransferDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.TransfersTotal.WithLabelValues(outcomeOf(err)).Inc()
		return
	}
	s.metrics.TransfersTotal.WithLabelValues(telemetry.OutcomeSuccess).Inc()
	s.metrics.TransferRecipients.Observe(float64(len(r.Recipients)))
}

func outcomeOf(err error) string {
	if kind := transfer.KindOf(err); kind != "" {
		return string(kind)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "error"
}
