package serverutils

import (
	"errors"

	"accio-playground-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// statusError is implemented by errors that know their HTTP status.
type statusError interface {
	error
	StatusCode() int
}

func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, err, log)
	}
}

// FiberErrorHandler catches what escapes the middleware chain (unknown routes, panics
// turned into errors by recover).
func FiberErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		return WriteError(ctx, err, log)
	}
}

func WriteError(ctx *fiber.Ctx, err error, log logger.ILogger) error {
	status, message := resolveError(err)
	if status == fiber.StatusInternalServerError {
		log.Error("HTTP", "Unhandled request error", map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"error":  err.Error(),
		})
	}
	return ctx.Status(status).JSON(ErrorResponse(status, message))
}

func resolveError(err error) (int, string) {
	var se statusError
	if errors.As(err, &se) {
		return se.StatusCode(), se.Error()
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	return fiber.StatusInternalServerError, "Server error"
}
