package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/logger"
)

// Error is the JSON body of every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
	Kind    string `json:"kind"`
	Pages   int    `json:"pages,omitempty"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

// NewError builds an Error with an explicit status.
func NewError(code int, kind, msg string) Error {
	return Error{Code: code, Message: msg, Kind: kind}
}

// ValidationError lists the request fields that failed validation.
type ValidationError struct {
	Code   int               `json:"code"`
	Kind   string            `json:"kind"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

// NewValidationError wraps per-field messages.
func NewValidationError(errs map[string]string) ValidationError {
	return ValidationError{
		Code:   fiber.StatusBadRequest,
		Kind:   domain.KindName(domain.ErrConfiguration),
		Errors: errs,
	}
}

// ErrMissingFile is returned when the multipart body has no file field.
func ErrMissingFile() Error {
	return NewError(fiber.StatusBadRequest, domain.KindName(domain.ErrLoad), "multipart field 'file' is required")
}

// ErrBadRequest is returned when the form cannot be parsed.
func ErrBadRequest() Error {
	return NewError(fiber.StatusBadRequest, domain.KindName(domain.ErrConfiguration), "invalid form request")
}

// StatusFor maps an error kind to an HTTP status.
func StatusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.ErrConfiguration:
		return fiber.StatusBadRequest
	case domain.ErrLoad:
		return fiber.StatusUnprocessableEntity
	case domain.ErrGeneration:
		if errors.Is(err, domain.ErrTimeout) {
			return fiber.StatusGatewayTimeout
		}
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// FromPipeline converts a core error into its JSON form.
func FromPipeline(err error) Error {
	return Error{
		Code:    StatusFor(err),
		Message: err.Error(),
		Kind:    domain.KindName(domain.KindOf(err)),
		Pages:   domain.PagesOf(err),
	}
}

// ErrorHandler is the fiber error handler for the API.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiErr Error
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Code).JSON(apiErr)
	}

	var valErr ValidationError
	if errors.As(err, &valErr) {
		return c.Status(valErr.Code).JSON(valErr)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(NewError(fe.Code, "request", fe.Message))
	}

	apiErr = FromPipeline(err)
	if apiErr.Code >= fiber.StatusInternalServerError {
		logger.Error(err, "%s %s failed", c.Method(), c.Path())
	}
	return c.Status(apiErr.Code).JSON(apiErr)
}
