package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/splitpay/pkg/domain"
	"github.com/amirasaad/splitpay/pkg/domain/account"
	"github.com/amirasaad/splitpay/pkg/domain/transfer"
	"github.com/amirasaad/splitpay/pkg/repository"
	"github.com/google/uuid"
)

// DefaultBatchSize is the number of recipient rows written per UPDATE.
const DefaultBatchSize = 100

// Engine applies validated transfers. One call is one transaction: the
// sender debit and every recipient credit commit together or not at all.
type Engine struct {
	uow       repository.UnitOfWork
	batchSize int
	logger    *slog.Logger
}

// NewEngine creates an Engine writing recipients in chunks of batchSize.
func NewEngine(uow repository.UnitOfWork, batchSize int, logger *slog.Logger) *Engine {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Engine{uow: uow, batchSize: batchSize, logger: logger}
}

// Execute moves v.TotalDebit from the sender to the recipients of v.
//
// The rows are locked first and the checks that depend on balances or
// existence are repeated under the lock, since v was built from an unlocked
// snapshot. A sender that is also a recipient is debited, then credited on
// the same row. Errors that are not transfer or not-found errors are reported
// as storage failures; nothing is retried.
func (e *Engine) Execute(ctx context.Context, senderID uuid.UUID, v *transfer.Validated) (*transfer.Result, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil validated transfer", domain.ErrValidation)
	}
	if v.SenderID != senderID {
		return nil, fmt.Errorf("%w: transfer was validated for sender %s", domain.ErrValidation, v.SenderID)
	}
	logger := e.logger.With("sender_id", senderID, "recipients", len(v.Recipients))

	var result *transfer.Result
	err := e.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}

		sender, recipients, err := repo.LockForTransfer(ctx, senderID, v.Recipients)
		if err != nil {
			return err
		}
		if len(recipients) != len(v.Recipients) {
			return transfer.NewError(transfer.KindUnknownRecipient, "list_of_inn",
				transfer.ErrUnknownRecipient.Message, nil)
		}
		if !sender.HasFunds(v.TotalDebit) {
			return transfer.NewError(transfer.KindInsufficientFunds, "amount",
				"your balance is less than the amount you want to transfer", nil)
		}

		if err := sender.Debit(v.TotalDebit); err != nil {
			return err
		}
		if err := repo.Save(ctx, sender); err != nil {
			return err
		}
		for _, r := range recipients {
			if err := r.Credit(v.AmountPerRecipient); err != nil {
				return err
			}
		}
		if err := repo.SaveMany(ctx, recipients, e.batchSize); err != nil {
			return err
		}

		result = &transfer.Result{
			SenderID:           sender.ID,
			SenderINN:          sender.INN,
			SenderBalance:      sender.Balance,
			Recipients:         v.Recipients,
			AmountPerRecipient: v.AmountPerRecipient,
			TotalDebit:         v.TotalDebit,
		}
		return nil
	})
	if err != nil {
		logger.Warn("transfer rolled back", "error", err)
		return nil, classify(err)
	}
	logger.Info("transfer committed",
		"share", result.AmountPerRecipient.StringFixed(2),
		"total_debit", result.TotalDebit.StringFixed(2))
	return result, nil
}

// classify leaves domain outcomes untouched and turns everything else into a
// storage failure.
func classify(err error) error {
	var te *transfer.Error
	switch {
	case errors.As(err, &te):
		return err
	case errors.Is(err, account.ErrAccountNotFound):
		return err
	case errors.Is(err, account.ErrInsufficientFunds):
		return transfer.NewError(transfer.KindInsufficientFunds, "amount", err.Error(), err)
	default:
		return transfer.StorageFailure(err)
	}
}
