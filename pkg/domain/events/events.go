// Package events defines the notifications published after state changes
// are committed.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is anything that can travel on the event bus.
type Event interface {
	Type() string
}

// EventType names an event on the wire.
type EventType string

const (
	EventTypeMoneyTransferred EventType = "Transfer.MoneyTransferred"
)

func (et EventType) String() string {
	return string(et)
}

// EventTypes maps wire names to constructors. Bus implementations that
// decode events from bytes use it to pick the concrete type.
var EventTypes = map[EventType]func() Event{
	EventTypeMoneyTransferred: func() Event { return &MoneyTransferred{} },
}

// MoneyTransferred is published once a split transfer has committed.
type MoneyTransferred struct {
	ID                 uuid.UUID       `json:"id"`
	SenderID           uuid.UUID       `json:"sender_id"`
	SenderINN          string          `json:"sender_inn"`
	Recipients         []string        `json:"recipients"`
	AmountPerRecipient decimal.Decimal `json:"amount_per_recipient"`
	TotalDebit         decimal.Decimal `json:"total_debit"`
	OccurredAt         time.Time       `json:"occurred_at"`
}

func (e MoneyTransferred) Type() string { return EventTypeMoneyTransferred.String() }

// NewMoneyTransferred stamps a MoneyTransferred with a fresh id and the
// current time.
func NewMoneyTransferred(
	senderID uuid.UUID,
	senderINN string,
	recipients []string,
	share, debit decimal.Decimal,
) *MoneyTransferred {
	return &MoneyTransferred{
		ID:                 uuid.New(),
		SenderID:           senderID,
		SenderINN:          senderINN,
		Recipients:         recipients,
		AmountPerRecipient: share,
		TotalDebit:         debit,
		OccurredAt:         time.Now().UTC(),
	}
}
