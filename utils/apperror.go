package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes shared by the service layer. Handlers translate these into
// HTTP statuses; services never import net/http.
const (
	CodeInvalidArgument       = "invalid_argument"
	CodeNotFound              = "not_found"
	CodeForbidden             = "forbidden"
	CodeConflict              = "conflict"
	CodePaymentInitFailed     = "payment_init_failed"
	CodeReconciliationSkipped = "reconciliation_skipped"
)

// AppError is a service-level error carrying a taxonomy code.
type AppError struct {
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return e.Code + ": " + e.Message
}

func NewInvalidArgument(msg string) error {
	return &AppError{Code: CodeInvalidArgument, Message: msg}
}

func NewNotFound(msg string) error {
	return &AppError{Code: CodeNotFound, Message: msg}
}

func NewForbidden(msg string) error {
	return &AppError{Code: CodeForbidden, Message: msg}
}

func NewConflict(msg string) error {
	return &AppError{Code: CodeConflict, Message: msg}
}

func NewPaymentInitFailed(msg string) error {
	return &AppError{Code: CodePaymentInitFailed, Message: msg}
}

// NewReconciliationSkipped marks a provider callback that matched no local
// payment. Webhook handlers acknowledge it with a success response so the
// provider stops retrying; it never reaches the client as an error.
func NewReconciliationSkipped(msg string) error {
	return &AppError{Code: CodeReconciliationSkipped, Message: msg}
}

// HTTPStatus maps a service error to an HTTP status code.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeConflict:
		return http.StatusConflict
	case CodePaymentInitFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf returns the taxonomy code of err, or "" if it is not an AppError.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// RespondError writes a service error as a JSON response with the mapped status.
func RespondError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		JSONError(c, HTTPStatus(err), appErr.Message, appErr.Code)
		return
	}
	JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
}
