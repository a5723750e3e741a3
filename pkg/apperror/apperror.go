package apperror

import "net/http"

// Machine-readable error codes consumed by the frontend.
const (
	CodeAuthBadCredentials = "AUTH_001"
	CodeAuthNoToken        = "AUTH_002"
	CodeAuthInvalidToken   = "AUTH_003"
	CodeAuthUserNotFound   = "AUTH_004"
	CodeBadRequest         = "BAD_REQUEST"
	CodeUserExists         = "USER_EXISTS"
	CodeDuplicateEntry     = "DUPLICATE_ENTRY"
	CodeNotFound           = "NOT_FOUND"
	CodeServerError        = "SERVER_ERROR"
)

// AppError is an operational error carrying an HTTP status and a stable code.
type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// New builds an AppError with an explicit status and code.
func New(message string, status int, code string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

// BadRequest is a 400 with the generic BAD_REQUEST code.
func BadRequest(message string) *AppError {
	return New(message, http.StatusBadRequest, CodeBadRequest)
}

// NotFound is a 404 with the NOT_FOUND code.
func NotFound(message string) *AppError {
	return New(message, http.StatusNotFound, CodeNotFound)
}
