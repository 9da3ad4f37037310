// FILE: internal/pkg/serverutils/error_handler.go
package serverutils

import (
	"errors"

	"subscription-webhook-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers of the enveloped
// API (status, admin) into ErrorResponse bodies via the apperror table.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
		}

		d := apperror.DecideStrict(err)
		return ctx.Status(d.Status).JSON(ErrorResponse(d.Status, d.Public))
	}
}
