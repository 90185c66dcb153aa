package user

import (
	"time"

	"github.com/amirasaad/splitpay/pkg/domain/account"
	"github.com/amirasaad/splitpay/pkg/domain/money"
	"github.com/amirasaad/splitpay/pkg/domain/transfer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListQuery is the query string of the account listing.
type ListQuery struct {
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PageSize int    `query:"page_size" validate:"omitempty,min=1,max=100"`
	INN      string `query:"inn" validate:"omitempty,inn"`
}

// TransferInput is the body of a money transfer. Amount accepts a JSON
// string or number.
type TransferInput struct {
	ListOfINN []string        `json:"list_of_inn" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
}

// AccountOutput is the public view of an account.
type AccountOutput struct {
	ID        uuid.UUID `json:"id"`
	INN       string    `json:"inn"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountList is one page of accounts.
type AccountList struct {
	Count    int64           `json:"count"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Results  []AccountOutput `json:"results"`
}

// TransferOutput reports a committed transfer.
type TransferOutput struct {
	AmountPerRecipient string    `json:"amount_per_recipient"`
	TotalDebit         string    `json:"total_debit"`
	Balance            string    `json:"balance"`
	InitiatedBy        uuid.UUID `json:"initiated_by"`
}

func toAccountOutput(a *account.Account) AccountOutput {
	return AccountOutput{
		ID:        a.ID,
		INN:       a.INN,
		Username:  a.Username,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Balance:   money.Format(a.Balance),
		CreatedAt: a.CreatedAt,
	}
}

func toTransferOutput(r *transfer.Result, initiator uuid.UUID) TransferOutput {
	return TransferOutput{
		AmountPerRecipient: money.Format(r.AmountPerRecipient),
		TotalDebit:         money.Format(r.TotalDebit),
		Balance:            money.Format(r.SenderBalance),
		InitiatedBy:        initiator,
	}
}
