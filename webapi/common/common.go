// Package common holds the response envelopes, error mapping and request
// binding shared by the HTTP handlers.
package common

import (
	"errors"
	"sync"

	"github.com/amirasaad/splitpay/pkg/domain"
	"github.com/amirasaad/splitpay/pkg/domain/account"
	"github.com/amirasaad/splitpay/pkg/domain/inn"
	"github.com/amirasaad/splitpay/pkg/domain/transfer"
	"github.com/amirasaad/splitpay/pkg/domain/user"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Errors   any    `json:"errors,omitempty"`
}

// SuccessResponseJSON writes a Response with the given status.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Status: status, Message: message, Data: data})
}

// ErrorResponseJSON returns a response following RFC 9457 Problem Details.
// A string detail fills Detail, anything else goes to Errors.
func ErrorResponseJSON(c *fiber.Ctx, status int, title string, detail any) error {
	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Instance: c.OriginalURL(),
	}
	switch d := detail.(type) {
	case nil:
	case string:
		pd.Detail = d
	default:
		pd.Errors = d
	}
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return c.Status(status).JSON(pd)
}

// ProblemDetailsJSON writes err as a problem document. The status comes from
// ErrorToStatusCode. Transfer errors carry their kind and field.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error) error {
	status := ErrorToStatusCode(err)
	var te *transfer.Error
	if errors.As(err, &te) {
		detail := fiber.Map{"kind": te.Kind}
		if te.Field != "" {
			detail[te.Field] = te.Message
		}
		return ErrorResponseJSON(c, status, title, detail)
	}
	if status == fiber.StatusInternalServerError {
		return ErrorResponseJSON(c, status, "Internal Server Error", nil)
	}
	return ErrorResponseJSON(c, status, title, err.Error())
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, transfer.ErrStorageFailure):
		return fiber.StatusServiceUnavailable
	case transfer.KindOf(err) != "":
		return fiber.StatusBadRequest
	case errors.Is(err, account.ErrAccountNotFound), errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, user.ErrUserUnauthorized), errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. It knows the "inn" tag.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("inn", func(fl validator.FieldLevel) bool {
			return inn.IsValid(fl.Field().String())
		})
	})
	return validate
}

// BindAndValidate parses the request body and validates it.
// Returns the populated struct, or writes an error response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	if err := Validator().Struct(input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error())
	}
	return &input, nil
}

// BindAndValidateQuery is BindAndValidate for the query string.
func BindAndValidateQuery[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.QueryParser(&input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid query", err.Error())
	}
	if err := Validator().Struct(input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error())
	}
	return &input, nil
}
