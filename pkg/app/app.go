// Package app wires the services of the process around shared dependencies.
package app

import (
	"log/slog"

	"github.com/amirasaad/splitpay/pkg/config"
	"github.com/amirasaad/splitpay/pkg/eventbus"
	"github.com/amirasaad/splitpay/pkg/repository"
	"github.com/amirasaad/splitpay/pkg/service/account"
	"github.com/amirasaad/splitpay/pkg/service/auth"
	"github.com/amirasaad/splitpay/pkg/service/transfer"
	"github.com/amirasaad/splitpay/pkg/telemetry"
)

// Deps contains the infrastructure the services are built on.
type Deps struct {
	Uow      repository.UnitOfWork
	EventBus eventbus.Bus
	Metrics  *telemetry.Metrics
	Logger   *slog.Logger
}

// App holds the configured services.
type App struct {
	Deps            *Deps
	Config          *config.App
	AuthService     *auth.Service
	AccountService  *account.Service
	TransferService *transfer.Service
}

// New builds every service from deps and registers the event handlers.
func New(deps *Deps, cfg *config.App) *App {
	a := &App{
		Deps:            deps,
		Config:          cfg,
		AuthService:     auth.New(deps.Uow, cfg.Auth.Jwt, deps.Logger),
		AccountService:  account.NewService(deps.Uow, deps.Logger),
		TransferService: transfer.New(deps.Uow, deps.EventBus, deps.Metrics, cfg.Transfer, deps.Logger),
	}
	a.setupEventBus()
	return a
}
