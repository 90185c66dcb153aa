package auth

import (
	"errors"

	"github.com/amirasaad/splitpay/pkg/domain/user"
	authsvc "github.com/amirasaad/splitpay/pkg/service/auth"
	"github.com/amirasaad/splitpay/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// AuthRoutes registers the login endpoint.
func AuthRoutes(app *fiber.App, authSvc *authsvc.Service) {
	app.Post("/login", Login(authSvc))
}

// Login authenticates a username and password and returns a JWT.
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if input == nil {
			return err
		}
		u, err := authSvc.Login(c.UserContext(), input.Username, input.Password)
		if errors.Is(err, user.ErrUserUnauthorized) {
			return common.ErrorResponseJSON(c, fiber.StatusUnauthorized,
				"Invalid username or password", "Username or password is incorrect")
		}
		if err != nil {
			return common.ProblemDetailsJSON(c, "Login failed", err)
		}
		token, err := authSvc.GenerateToken(u)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Login failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Success login", fiber.Map{"token": token})
	}
}
