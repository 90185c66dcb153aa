package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/amirasaad/splitpay/internal/fixtures/accounts"
	"github.com/amirasaad/splitpay/pkg/domain"
	"github.com/amirasaad/splitpay/pkg/domain/inn"
	"github.com/amirasaad/splitpay/pkg/domain/money"
	"github.com/amirasaad/splitpay/pkg/domain/user"
	accountsvc "github.com/amirasaad/splitpay/pkg/service/account"
	transfersvc "github.com/amirasaad/splitpay/pkg/service/transfer"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

// seedPassword is the password given to accounts created by seed.
const seedPassword = "password"

var errUsage = errors.New("invalid arguments")

type cli struct {
	accounts     *accountsvc.Service
	transfers    *transfersvc.Service
	out          io.Writer
	readPassword func() (string, error)
}

var (
	success = color.New(color.FgGreen).SprintFunc()
	bold    = color.New(color.Bold).SprintFunc()
	warn    = color.New(color.FgYellow).SprintFunc()
)

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cli <command> [arguments]")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  validate-inn <inn>")
	fmt.Fprintln(w, "  create <inn> <username> [balance]")
	fmt.Fprintln(w, "  grant <username> <capability>")
	fmt.Fprintln(w, "  seed")
	fmt.Fprintln(w, "  balance <inn>")
	fmt.Fprintln(w, "  transfer <sender-inn> <amount> <inn,inn,...>")
}

func (c *cli) run(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "validate-inn":
		err = c.validateINN(rest)
	case "create":
		err = c.create(ctx, rest)
	case "grant":
		err = c.grant(ctx, rest)
	case "seed":
		err = c.seed(ctx)
	case "balance":
		err = c.balance(ctx, rest)
	case "transfer":
		err = c.transfer(ctx, rest)
	default:
		printUsage(c.out)
		return fmt.Errorf("unknown command %q", cmd)
	}
	if errors.Is(err, errUsage) {
		printUsage(c.out)
	}
	return err
}

func (c *cli) validateINN(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := inn.Validate(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s %s\n", success("valid"), args[0])
	return nil
}

func (c *cli) create(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return errUsage
	}
	balance := decimal.Zero
	if len(args) == 3 {
		var err error
		if balance, err = money.ParseBalance(args[2]); err != nil {
			return fmt.Errorf("balance: %w", err)
		}
	}
	password, err := c.readPassword()
	if err != nil {
		return err
	}
	a, err := c.accounts.OpenAccount(ctx, accountsvc.Open{
		INN:      args[0],
		Username: args[1],
		Balance:  balance,
		Password: password,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s account %s for %s, balance %s\n",
		success("created"), a.ID, bold(a.Username), money.Format(a.Balance))
	return nil
}

func (c *cli) grant(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	capability, err := user.ParseCapability(args[1])
	if err != nil {
		return err
	}
	if err := c.accounts.GrantCapability(ctx, args[0], capability); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s %s to %s\n", success("granted"), capability, bold(args[0]))
	return nil
}

func (c *cli) seed(ctx context.Context) error {
	fixtures, err := accounts.Load("")
	if err != nil {
		return err
	}
	created := 0
	for _, a := range fixtures {
		_, err := c.accounts.OpenAccount(ctx, accountsvc.Open{
			INN:          a.INN,
			Username:     a.Username,
			FirstName:    a.FirstName,
			LastName:     a.LastName,
			Balance:      a.Balance,
			Password:     seedPassword,
			Capabilities: []user.Capability{user.CanViewAccounts, user.CanMoneyTransfer},
		})
		if errors.Is(err, domain.ErrAlreadyExists) {
			fmt.Fprintf(c.out, "%s %s exists\n", warn("skipped"), a.INN)
			continue
		}
		if err != nil {
			return fmt.Errorf("seed %s: %w", a.INN, err)
		}
		created++
	}
	fmt.Fprintf(c.out, "%s %d of %d accounts\n", success("seeded"), created, len(fixtures))
	return nil
}

func (c *cli) balance(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	a, err := c.accounts.GetAccountByINN(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s %s\n", a.INN, bold(money.Format(a.Balance)))
	return nil
}

func (c *cli) transfer(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errUsage
	}
	sender, err := c.accounts.GetAccountByINN(ctx, args[0])
	if err != nil {
		return err
	}
	amount, err := money.Parse(args[1])
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	var recipients []string
	for _, r := range strings.Split(args[2], ",") {
		if r = strings.TrimSpace(r); r != "" {
			recipients = append(recipients, r)
		}
	}
	result, err := c.transfers.Transfer(ctx, sender.ID, recipients, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s %s to each of %d recipients, debited %s, balance %s\n",
		success("All done:"),
		money.Format(result.AmountPerRecipient),
		len(result.Recipients),
		money.Format(result.TotalDebit),
		bold(money.Format(result.SenderBalance)))
	return nil
}
