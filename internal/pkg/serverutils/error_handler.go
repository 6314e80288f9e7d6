package serverutils

import (
	"errors"

	"redis-copilot-be/pkg/assistant/socket"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AppError is a caller-facing error with a fixed HTTP status.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// ErrorHandlerMiddleware maps domain errors to HTTP statuses. Streaming
// handlers never reach this once the body is open; they report aborts
// in-stream instead.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var appErr *AppError
		var rateErr *socket.RateLimitError
		var protoErr *socket.ProtocolError
		var connErr *socket.ConnectionError
		var validationErrs validator.ValidationErrors
		var fiberErr *fiber.Error

		switch {
		case errors.As(err, &appErr):
			code = appErr.Code
			message = appErr.Message
		case errors.As(err, &rateErr):
			code = fiber.StatusTooManyRequests
			message = rateErr.Message
		case errors.As(err, &protoErr):
			code = fiber.StatusBadGateway
			message = protoErr.Message
		case errors.As(err, &connErr):
			code = fiber.StatusServiceUnavailable
			message = "Assistant backend is unavailable"
		case errors.As(err, &validationErrs):
			code = fiber.StatusBadRequest
			message = validationErrs.Error()
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		}

		return ctx.Status(code).JSON(fiber.Map{
			"success": false,
			"code":    code,
			"message": message,
		})
	}
}
