package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/amirasaad/splitpay/infra"
	infraeventbus "github.com/amirasaad/splitpay/infra/eventbus"
	infrarepo "github.com/amirasaad/splitpay/infra/repository"
	"github.com/amirasaad/splitpay/pkg/config"
	accountsvc "github.com/amirasaad/splitpay/pkg/service/account"
	transfersvc "github.com/amirasaad/splitpay/pkg/service/transfer"
	"github.com/fatih/color"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage(os.Stdout)
		return nil
	}
	c := &cli{out: os.Stdout, readPassword: readPassword}
	if args[0] == "validate-inn" {
		return c.run(context.Background(), args)
	}

	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uow := infrarepo.NewUoW(db)
	c.accounts = accountsvc.NewService(uow, logger)
	c.transfers = transfersvc.New(uow, infraeventbus.NewWithMemory(logger), nil, cfg.Transfer, logger)
	return c.run(context.Background(), args)
}

func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
