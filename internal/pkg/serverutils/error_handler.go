package serverutils

import (
	"errors"

	"subtracker-be/internal/pkg/apperror"
	"subtracker-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const genericErrorMessage = "Something went wrong, please try again later"

// StatusFor maps a domain error onto the HTTP status the API promises. Anything it
// does not recognize is a 500.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrInvalidTransition):
		return fiber.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// ErrorHandlerMiddleware is installed as fiber's ErrorHandler. Handlers just return
// errors; 5xx details are logged and replaced with a generic message.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := StatusFor(err)
		body := ErrorResponse(code, err.Error())

		var verr *apperror.ValidationError
		if errors.As(err, &verr) {
			body.Error.Message = verr.Message
			body.Error.Field = verr.Field
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err.Error(),
			})
			body.Error.Message = genericErrorMessage
		}

		return ctx.Status(code).JSON(body)
	}
}
