package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors returned by controllers into the
// uniform error envelope. Typed ApiErrors keep their code and kind; anything
// else is reported as a 500 INTERNAL_ERROR without leaking internals.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var apiErr *ApiError
		if errors.As(err, &apiErr) {
			return ctx.Status(apiErr.Code).JSON(ErrorResponse(apiErr))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(
				NewApiError(fiberErr.Code, ErrTypeInternal, fiberErr.Message),
			))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(
			NewApiError(fiber.StatusInternalServerError, ErrTypeInternal, "internal server error"),
		))
	}
}
