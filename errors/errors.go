package errors

import (
	"fmt"
	"net/http"
)

// Machine-readable codes surfaced to API clients.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidTransition = "INVALID_STATE_TRANSITION"
)

// Error carries an HTTP status and an optional machine-readable code
// alongside the message.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(message string, status int) *Error {
	return &Error{Message: message, Status: status}
}

func NewValidation(message, field string) *Error {
	return &Error{
		Message: message,
		Status:  http.StatusBadRequest,
		Code:    CodeValidation,
		Field:   field,
	}
}

func NewNotFound(message string) *Error {
	return &Error{Message: message, Status: http.StatusNotFound, Code: CodeNotFound}
}

func NewInvalidTransition(from, to string) *Error {
	return &Error{
		Message: fmt.Sprintf("No se puede cambiar de '%s' a '%s'", from, to),
		Status:  http.StatusBadRequest,
		Code:    CodeInvalidTransition,
	}
}

var ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
