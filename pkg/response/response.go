package response

import (
	"errors"
	"net/http"

	"github.com/Sachinsen7/grin/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Response is the standard API envelope.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody carries the machine-readable code alongside the message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success returns the standard success envelope wrapping the data.
func Success(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// Error returns the standard error envelope.
func Error(code, message string) Response {
	return Response{Success: false, Error: &ErrorBody{Code: code, Message: message}}
}

// SendSuccess writes a success envelope with the given status code.
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Success(data))
}

// HandleError maps a service error onto the envelope. Operational errors keep
// their status and code; anything else is reported as a generic 500 so
// internals never leak to the client.
func HandleError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		logrus.WithFields(logrus.Fields{
			"path":   c.FullPath(),
			"method": c.Request.Method,
			"code":   appErr.Code,
		}).Warn(appErr.Message)
		c.JSON(appErr.Status, Error(appErr.Code, appErr.Message))
		return
	}

	logrus.WithFields(logrus.Fields{
		"path":   c.FullPath(),
		"method": c.Request.Method,
	}).WithError(err).Error("unexpected error")
	c.JSON(http.StatusInternalServerError,
		Error(apperror.CodeServerError, "An unexpected internal server error occurred"))
}

// AbortError writes the envelope and stops the middleware chain.
func AbortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Error(code, message))
}
