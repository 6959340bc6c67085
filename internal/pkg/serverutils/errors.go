package serverutils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ApiError carries an HTTP status alongside a user-facing message.
// Services return it when a failure maps to a specific status code.
type ApiError struct {
	Status  int
	Message string
}

func (e *ApiError) Error() string {
	return e.Message
}

func NewApiError(status int, message string) *ApiError {
	return &ApiError{Status: status, Message: message}
}

func NotFoundError(message string) *ApiError {
	return NewApiError(fiber.StatusNotFound, message)
}

func BadRequestError(message string) *ApiError {
	return NewApiError(fiber.StatusBadRequest, message)
}

var validate = validator.New()

// ValidateRequest runs struct tag validation and converts failures to a
// 400 with per-field messages.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return err
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		}
		return &validationError{fields: fields}
	}
	return err
}

type validationError struct {
	fields map[string]string
}

func (e *validationError) Error() string {
	return "request validation failed"
}

// ErrorHandlerMiddleware converts errors bubbling out of handlers into
// the response envelope. Unknown errors become a 500 without leaking
// internals.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var apiErr *ApiError
		if errors.As(err, &apiErr) {
			return ctx.Status(apiErr.Status).JSON(ErrorResponse(apiErr.Message, nil))
		}

		var verr *validationError
		if errors.As(err, &verr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(verr.Error(), verr.fields))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message, nil))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error", nil))
	}
}
