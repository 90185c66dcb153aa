// Package middleware provides the fiber authentication and authorization
// handlers.
package middleware

import (
	"errors"

	"github.com/amirasaad/splitpay/pkg/config"
	"github.com/amirasaad/splitpay/pkg/domain/user"
	authsvc "github.com/amirasaad/splitpay/pkg/service/auth"
	"github.com/amirasaad/splitpay/webapi/common"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenKey   = "user"
	accountKey = "account_id"
)

// JwtProtected rejects requests without a valid HS256 bearer token and
// stores the parsed token in the context locals.
func JwtProtected(cfg *config.Jwt) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.Secret)},
		ContextKey:   tokenKey,
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "Missing or malformed JWT")
	}
	return common.ErrorResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "Invalid or expired JWT")
}

// RequireCapability lets the request through only when the authenticated
// user holds c. It must run after JwtProtected. The caller's account id is
// available to later handlers through AccountID.
func RequireCapability(svc *authsvc.Service, c user.Capability) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token, _ := ctx.Locals(tokenKey).(*jwt.Token)
		id, err := svc.GetCurrentUserID(token)
		if err != nil {
			return common.ErrorResponseJSON(ctx, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}
		if err := svc.Authorize(ctx.UserContext(), id, c); err != nil {
			return common.ProblemDetailsJSON(ctx, "Forbidden", err)
		}
		ctx.Locals(accountKey, id)
		return ctx.Next()
	}
}

// AccountID returns the account id stored by RequireCapability.
func AccountID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(accountKey).(uuid.UUID)
	return id, ok
}
