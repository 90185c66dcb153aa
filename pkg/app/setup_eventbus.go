package app

import (
	"context"
	"fmt"

	"github.com/amirasaad/splitpay/pkg/domain/events"
)

// setupEventBus registers the handlers this process runs for its own events.
func (a *App) setupEventBus() {
	if a.Deps.EventBus == nil {
		return
	}
	a.Deps.EventBus.Register(events.EventTypeMoneyTransferred, a.auditTransfer)
}

// auditTransfer writes committed transfers to the log.
func (a *App) auditTransfer(_ context.Context, e events.Event) error {
	mt, ok := e.(*events.MoneyTransferred)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", e, e.Type())
	}
	a.Deps.Logger.Info("money transferred",
		"event_id", mt.ID,
		"sender_inn", mt.SenderINN,
		"recipients", len(mt.Recipients),
		"share", mt.AmountPerRecipient.StringFixed(2),
		"total_debit", mt.TotalDebit.StringFixed(2),
	)
	return nil
}
