// FILE: internal/pkg/serverutils/error_handler.go
package serverutils

import (
	"errors"

	"marketmind-be/internal/pkg/apperr"
	"marketmind-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// statusOf is the single place mapping error kinds to HTTP statuses.
func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindProvider, apperr.KindStore, apperr.KindInternal:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware converts errors returned by handlers into JSON
// error bodies. Causes are logged server-side only; the client sees just the
// client-safe message.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			status := statusOf(appErr.Kind)
			if status >= fiber.StatusInternalServerError {
				log.Error("http", "request failed", map[string]interface{}{
					"method": ctx.Method(),
					"path":   ctx.Path(),
					"kind":   appErr.Kind.String(),
					"error":  appErr.Error(),
				})
			} else {
				log.Warn("http", "request rejected", map[string]interface{}{
					"method": ctx.Method(),
					"path":   ctx.Path(),
					"kind":   appErr.Kind.String(),
				})
			}
			return ctx.Status(status).JSON(fiber.Map{"error": appErr.Message})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		log.Error("http", "unhandled error", map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"error":  err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong!"})
	}
}
