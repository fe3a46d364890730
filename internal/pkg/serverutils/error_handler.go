package serverutils

import (
	"errors"

	"ai-crm-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// RespondError maps a service error onto the response envelope. Classified
// errors carry their own status; anything else is a 500 with a generic
// message so internals never leak to clients.
func RespondError(ctx *fiber.Ctx, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		status := appErr.Kind.HTTPStatus()
		return ctx.Status(status).JSON(ErrorResponse(status, appErr.Message))
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
	}

	return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(500, "Internal server error"))
}

// ErrorHandler is installed as the Fiber app-level error handler.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	return RespondError(ctx, err)
}
