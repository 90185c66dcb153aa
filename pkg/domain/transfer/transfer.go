package transfer

import (
	"github.com/amirasaad/splitpay/pkg/domain/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request is a split transfer as submitted by a client.
type Request struct {
	Recipients []string
	Amount     decimal.Decimal
}

// Validated is a request that passed every check against a sender snapshot.
// AmountPerRecipient * len(Recipients) == TotalDebit <= Amount.
type Validated struct {
	SenderID           uuid.UUID
	Recipients         []string
	Accounts           []*account.Account
	Amount             decimal.Decimal
	AmountPerRecipient decimal.Decimal
	TotalDebit         decimal.Decimal
}

// Result describes a committed transfer.
type Result struct {
	SenderID           uuid.UUID
	SenderINN          string
	SenderBalance      decimal.Decimal
	Recipients         []string
	AmountPerRecipient decimal.Decimal
	TotalDebit         decimal.Decimal
}
