package transfer_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	infraeventbus "github.com/amirasaad/splitpay/infra/eventbus"
	infrarepo "github.com/amirasaad/splitpay/infra/repository"
	"github.com/amirasaad/splitpay/pkg/config"
	"github.com/amirasaad/splitpay/pkg/domain/account"
	"github.com/amirasaad/splitpay/pkg/domain/events"
	"github.com/amirasaad/splitpay/pkg/domain/transfer"
	"github.com/amirasaad/splitpay/pkg/repository"
	transfersvc "github.com/amirasaad/splitpay/pkg/service/transfer"
	"github.com/amirasaad/splitpay/pkg/telemetry"
	"github.com/amirasaad/splitpay/pkg/testutils"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	svc     *transfersvc.Service
	bus     *infraeventbus.MemoryEventBus
	metrics *telemetry.Metrics
}

func newFixture(t *testing.T, uow func(db *gorm.DB) repository.UnitOfWork) *fixture {
	t.Helper()
	db := testutils.NewSQLiteDB(t)
	if uow == nil {
		uow = func(db *gorm.DB) repository.UnitOfWork { return infrarepo.NewUoW(db) }
	}
	bus := infraeventbus.NewWithMemory(slog.Default(), infraeventbus.WithRecording())
	metrics := telemetry.NewMetrics(prometheus.NewRegistry())
	svc := transfersvc.New(uow(db), bus, metrics, &config.Transfer{BatchSize: 4}, slog.Default())
	return &fixture{db: db, svc: svc, bus: bus, metrics: metrics}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertBalance(t *testing.T, db *gorm.DB, inn, want string) {
	t.Helper()
	got := testutils.Balance(t, db, inn)
	assert.True(t, got.Equal(dec(want)), "%s: balance %s, want %s", inn, got.StringFixed(2), want)
}

func TestService_TransferScenarios(t *testing.T) {
	tests := []struct {
		name          string
		balance       string
		amount        string
		recipients    int
		includeSender bool
		senderAfter   string
		credit        string
	}{
		{"0.70 over 8", "0.70", "0.70", 8, false, "0.06", "0.08"},
		{"0.70 over 6", "0.70", "0.70", 6, false, "0.04", "0.11"},
		{"60 over 10", "60", "60", 10, false, "0.00", "6.00"},
		{"10 over 9", "10", "10", 9, false, "0.01", "1.11"},
		{"16 over 15 and sender", "16", "16", 15, true, "1.00", "1.00"},
		{"15 over 15 and sender", "16", "15", 15, true, "2.05", "0.93"},
		{"0.15 over 15", "2.15", "0.15", 15, false, "2.00", "0.01"},
		{"one billion over 15", "1000000000", "1000000000", 15, false, "0.10", "66666666.66"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			sender := testutils.CreateAccount(t, f.db, testutils.SenderINN, tt.balance)
			inns := append([]string(nil), testutils.RecipientINNs[:tt.recipients]...)
			for _, inn := range inns {
				testutils.CreateAccount(t, f.db, inn, "0")
			}
			if tt.includeSender {
				inns = append(inns, testutils.SenderINN)
			}

			result, err := f.svc.Transfer(context.Background(), sender.ID, inns, dec(tt.amount))
			require.NoError(t, err)
			assert.True(t, result.AmountPerRecipient.Equal(dec(tt.credit)))
			assert.True(t, result.SenderBalance.Equal(dec(tt.senderAfter)))

			assertBalance(t, f.db, testutils.SenderINN, tt.senderAfter)
			for _, inn := range testutils.RecipientINNs[:tt.recipients] {
				assertBalance(t, f.db, inn, tt.credit)
			}

			published := f.bus.Published()
			require.Len(t, published, 1)
			evt, ok := published[0].(*events.MoneyTransferred)
			require.True(t, ok)
			assert.Equal(t, sender.ID, evt.SenderID)
			assert.Equal(t, inns, evt.Recipients)
			assert.InDelta(t, 1, testutil.ToFloat64(
				f.metrics.TransfersTotal.WithLabelValues(telemetry.OutcomeSuccess)), 0)
		})
	}
}

func TestService_TransferRejections(t *testing.T) {
	tests := []struct {
		name       string
		amount     string
		recipients []string
		want       error
	}{
		{"negative amount", "-1", testutils.RecipientINNs[:2], transfer.ErrInvalidAmount},
		{"three decimals", "1.999", testutils.RecipientINNs[:2], transfer.ErrInvalidAmount},
		{"over balance", "10.01", testutils.RecipientINNs[:2], transfer.ErrInsufficientFunds},
		{"malformed identifiers", "1", []string{"1", "2", "3"}, transfer.ErrInvalidIdentifier},
		{"empty recipients", "1", []string{}, transfer.ErrEmptyRecipients},
		{"duplicates", "1", append(append([]string(nil), testutils.RecipientINNs...), testutils.RecipientINNs[:2]...), transfer.ErrDuplicateRecipient},
		{"split too small", "0.10", testutils.RecipientINNs, transfer.ErrSplitTooSmall},
		{"too many digits", "10000000000", testutils.RecipientINNs[:2], transfer.ErrInvalidAmount},
		{"unregistered recipient", "1", []string{testutils.RecipientINNs[0], "783417452358"}, transfer.ErrUnknownRecipient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			sender := testutils.CreateAccount(t, f.db, testutils.SenderINN, "10")
			for _, inn := range testutils.RecipientINNs {
				testutils.CreateAccount(t, f.db, inn, "0")
			}

			_, err := f.svc.Transfer(context.Background(), sender.ID, tt.recipients, dec(tt.amount))
			require.ErrorIs(t, err, tt.want)

			assertBalance(t, f.db, testutils.SenderINN, "10")
			for _, inn := range testutils.RecipientINNs {
				assertBalance(t, f.db, inn, "0")
			}
			assert.Empty(t, f.bus.Published())
			assert.InDelta(t, 1, testutil.ToFloat64(
				f.metrics.TransfersTotal.WithLabelValues(string(transfer.KindOf(err)))), 0)
		})
	}
}

func TestService_UnknownSender(t *testing.T) {
	f := newFixture(t, nil)
	testutils.CreateAccount(t, f.db, testutils.RecipientINNs[0], "0")

	_, err := f.svc.Transfer(context.Background(), uuid.New(), testutils.RecipientINNs[:1], dec("1"))
	require.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestService_ExecuteRechecksFundsUnderLock(t *testing.T) {
	f := newFixture(t, nil)
	sender := testutils.CreateAccount(t, f.db, testutils.SenderINN, "10")
	for _, inn := range testutils.RecipientINNs[:2] {
		testutils.CreateAccount(t, f.db, inn, "0")
	}
	ctx := context.Background()

	first, err := f.svc.ValidateAndPrepareTransfer(ctx, sender.ID, testutils.RecipientINNs[:2], dec("8"))
	require.NoError(t, err)
	second, err := f.svc.ValidateAndPrepareTransfer(ctx, sender.ID, testutils.RecipientINNs[:2], dec("8"))
	require.NoError(t, err)

	_, err = f.svc.ExecuteTransfer(ctx, sender.ID, first)
	require.NoError(t, err)
	_, err = f.svc.ExecuteTransfer(ctx, sender.ID, second)
	require.ErrorIs(t, err, transfer.ErrInsufficientFunds)

	assertBalance(t, f.db, testutils.SenderINN, "2")
	assertBalance(t, f.db, testutils.RecipientINNs[0], "4")
}

func TestService_ExecuteRejectsForeignValidation(t *testing.T) {
	f := newFixture(t, nil)
	sender := testutils.CreateAccount(t, f.db, testutils.SenderINN, "10")
	testutils.CreateAccount(t, f.db, testutils.RecipientINNs[0], "0")

	v, err := f.svc.ValidateAndPrepareTransfer(context.Background(), sender.ID, testutils.RecipientINNs[:1], dec("1"))
	require.NoError(t, err)
	_, err = f.svc.ExecuteTransfer(context.Background(), uuid.New(), v)
	require.Error(t, err)
	assertBalance(t, f.db, testutils.SenderINN, "10")
}

// failingUoW hands out account repositories whose SaveMany fails, to prove
// the sender debit written before it is rolled back.
type failingUoW struct {
	repository.UnitOfWork
}

func (u *failingUoW) Do(ctx context.Context, fn func(repository.UnitOfWork) error) error {
	return u.UnitOfWork.Do(ctx, func(tx repository.UnitOfWork) error {
		return fn(&failingUoW{UnitOfWork: tx})
	})
}

func (u *failingUoW) AccountRepository() (repository.AccountRepository, error) {
	repo, err := u.UnitOfWork.AccountRepository()
	if err != nil {
		return nil, err
	}
	return &failingAccounts{AccountRepository: repo}, nil
}

type failingAccounts struct {
	repository.AccountRepository
}

var errDiskFull = errors.New("disk full")

func (failingAccounts) SaveMany(context.Context, []*account.Account, int) error {
	return errDiskFull
}

func TestService_StorageFailureRollsBack(t *testing.T) {
	f := newFixture(t, func(db *gorm.DB) repository.UnitOfWork {
		return &failingUoW{UnitOfWork: infrarepo.NewUoW(db)}
	})
	sender := testutils.CreateAccount(t, f.db, testutils.SenderINN, "10")
	for _, inn := range testutils.RecipientINNs[:3] {
		testutils.CreateAccount(t, f.db, inn, "0")
	}

	_, err := f.svc.Transfer(context.Background(), sender.ID, testutils.RecipientINNs[:3], dec("3"))
	require.ErrorIs(t, err, transfer.ErrStorageFailure)
	assert.ErrorIs(t, err, errDiskFull)

	assertBalance(t, f.db, testutils.SenderINN, "10")
	for _, inn := range testutils.RecipientINNs[:3] {
		assertBalance(t, f.db, inn, "0")
	}
	assert.Empty(t, f.bus.Published())
}

func TestService_ConcurrentTransfersConserveMoney(t *testing.T) {
	f := newFixture(t, nil)
	sender := testutils.CreateAccount(t, f.db, testutils.SenderINN, "10")
	for _, inn := range testutils.RecipientINNs[:2] {
		testutils.CreateAccount(t, f.db, inn, "0")
	}

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Transfer(context.Background(), sender.ID, testutils.RecipientINNs[:2], dec("1"))
			if err != nil {
				assert.ErrorIs(t, err, transfer.ErrInsufficientFunds)
				return
			}
			mu.Lock()
			succeeded++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assertBalance(t, f.db, testutils.SenderINN, "0")
	assertBalance(t, f.db, testutils.RecipientINNs[0], "5")
	assertBalance(t, f.db, testutils.RecipientINNs[1], "5")
}
