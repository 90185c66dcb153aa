// Package user serves the account listing and the split transfer endpoint.
// Routes keep the /users naming of the public API.
package user

import (
	"github.com/amirasaad/splitpay/pkg/config"
	"github.com/amirasaad/splitpay/pkg/domain/account"
	"github.com/amirasaad/splitpay/pkg/domain/user"
	"github.com/amirasaad/splitpay/pkg/middleware"
	"github.com/amirasaad/splitpay/pkg/repository"
	accountsvc "github.com/amirasaad/splitpay/pkg/service/account"
	authsvc "github.com/amirasaad/splitpay/pkg/service/auth"
	transfersvc "github.com/amirasaad/splitpay/pkg/service/transfer"
	"github.com/amirasaad/splitpay/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// UserRoutes registers the account endpoints behind JWT authentication.
func UserRoutes(
	app *fiber.App,
	accountSvc *accountsvc.Service,
	transferSvc *transfersvc.Service,
	authSvc *authsvc.Service,
	cfg *config.Jwt,
) {
	users := app.Group("/users", middleware.JwtProtected(cfg))
	canView := middleware.RequireCapability(authSvc, user.CanViewAccounts)
	users.Get("/", canView, ListAccounts(accountSvc))
	users.Get("/:id", canView, GetAccount(accountSvc))
	users.Post("/:id/money_transfer",
		middleware.RequireCapability(authSvc, user.CanMoneyTransfer),
		MoneyTransfer(transferSvc))
}

// ListAccounts returns accounts newest first. An inn query narrows the
// result to that account.
func ListAccounts(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := common.BindAndValidateQuery[ListQuery](c)
		if q == nil {
			return err
		}
		if q.INN != "" {
			a, err := svc.GetAccountByINN(c.UserContext(), q.INN)
			if err != nil {
				return common.ProblemDetailsJSON(c, "Account not found", err)
			}
			return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts", AccountList{
				Count: 1, Page: 1, PageSize: 1, Results: []AccountOutput{toAccountOutput(a)},
			})
		}

		page := repository.Page{Number: q.Page, Size: q.PageSize}
		if page.Number == 0 {
			page.Number = 1
		}
		if page.Size == 0 {
			page.Size = accountsvc.DefaultPageSize
		}
		accounts, total, err := svc.ListAccounts(c.UserContext(), page)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list accounts", err)
		}
		out := AccountList{Count: total, Page: page.Number, PageSize: page.Size, Results: make([]AccountOutput, 0, len(accounts))}
		for _, a := range accounts {
			out.Results = append(out.Results, toAccountOutput(a))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts", out)
	}
}

// GetAccount returns one account.
func GetAccount(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account ID", "Account ID must be a valid UUID")
		}
		a, err := svc.GetAccount(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Account not found", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Account found", toAccountOutput(a))
	}
}

// MoneyTransfer splits the amount equally from account :id to every listed
// identifier. The authenticated caller is reported as the initiator.
func MoneyTransfer(svc *transfersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		initiator, ok := middleware.AccountID(c)
		if !ok {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "Missing caller identity")
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Account not found", account.ErrAccountNotFound)
		}
		input, err := common.BindAndValidate[TransferInput](c)
		if input == nil {
			return err
		}
		log.Infow("money transfer requested",
			"initiator", initiator, "sender", id, "recipients", len(input.ListOfINN))
		result, err := svc.Transfer(c.UserContext(), id, input.ListOfINN, input.Amount)
		if err != nil {
			log.Warnw("money transfer rejected", "initiator", initiator, "sender", id, "error", err)
			return common.ProblemDetailsJSON(c, "Transfer rejected", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "All done", toTransferOutput(result, initiator))
	}
}
