package utils

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// RespondWithError sends a JSON error response.
func RespondWithError(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(ErrorResponse{Error: message})
}

// RespondWithErrorDetails sends a JSON error response carrying the cause.
// The stack trace is only attached when withStack is set. It is the stack
// where a wrapped StorageError was created, or the current one otherwise.
func RespondWithErrorDetails(c *fiber.Ctx, statusCode int, message string, cause error, withStack bool) error {
	resp := ErrorResponse{Error: message}
	if cause != nil {
		resp.Details = cause.Error()
		if withStack {
			resp.Stack = stackTrace(cause)
		}
	}
	return c.Status(statusCode).JSON(resp)
}

// StatusFor maps an error onto the HTTP status it is reported with.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case err == nil:
		return fiber.StatusOK
	case IsValidationError(err):
		return fiber.StatusBadRequest
	case errors.As(err, &fe):
		return fe.Code
	default:
		// Storage and not-found failures alike are reported as 500.
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler returns the catch-all fiber error handler. Errors that reach
// it were not converted by a handler.
func ErrorHandler(logger *logrus.Logger, withStack bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := StatusFor(err)
		if status >= fiber.StatusInternalServerError {
			logger.WithFields(logrus.Fields{
				"uri":   c.OriginalURL(),
				"error": err.Error(),
			}).Error("Unhandled request error")
			return RespondWithErrorDetails(c, status, "Internal server error: "+err.Error(), err, withStack)
		}
		return RespondWithError(c, status, err.Error())
	}
}

// FormatValidationErrors formats validation errors from validator/v10.
func FormatValidationErrors(err error) []string {
	var errs []string
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		if err != nil {
			errs = append(errs, err.Error())
		}
		return errs
	}
	for _, fe := range verrs {
		element := fmt.Sprintf("Field '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			element = fmt.Sprintf("%s (value: %s)", element, fe.Param())
		}
		errs = append(errs, element)
	}
	return errs
}

func stackTrace(cause error) string {
	var se *StorageError
	if errors.As(cause, &se) && len(se.stack) > 0 {
		return se.Stack()
	}
	return string(debug.Stack())
}
