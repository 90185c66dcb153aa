// Package accounts holds the sample accounts used to seed a fresh database.
package accounts

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amirasaad/splitpay/pkg/domain/account"
	"github.com/shopspring/decimal"
)

//go:embed accounts.csv
var accountsCSV string

var header = []string{"inn", "username", "first_name", "last_name", "balance"}

// Load reads accounts from the CSV file at path, or from the embedded
// sample set when path is empty. Every row becomes a validated Account with
// a fresh id.
func Load(path string) ([]*account.Account, error) {
	if path == "" {
		return parse(strings.NewReader(accountsCSV))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return parse(f)
}

func parse(r io.Reader) ([]*account.Account, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	if got := records[0]; len(got) != len(header) {
		return nil, fmt.Errorf("invalid CSV header: expected %v, got %v", header, got)
	}

	out := make([]*account.Account, 0, len(records)-1)
	for i, rec := range records[1:] {
		balance, err := decimal.NewFromString(strings.TrimSpace(rec[4]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid balance %q", i+2, rec[4])
		}
		a, err := account.New().
			WithINN(rec[0]).
			WithUsername(rec[1]).
			WithName(rec[2], rec[3]).
			WithBalance(balance).
			Build()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, a)
	}
	return out, nil
}
