package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/jsonapi-server/internal/pkg/apperror"
)

// ContentType is the JSON:API media type.
const ContentType = "application/vnd.api+json"

// ErrorObject is a JSON:API error object.
type ErrorObject struct {
	Status string       `json:"status"`
	Title  string       `json:"title"`
	Detail string       `json:"detail,omitempty"`
	Source *ErrorSource `json:"source,omitempty"`
}

// ErrorSource points at the request member that caused an error.
type ErrorSource struct {
	Pointer string `json:"pointer"`
}

// ErrorDocument is the top-level JSON:API document of an error response.
type ErrorDocument struct {
	Errors []ErrorObject `json:"errors"`
}

// NewErrorObject builds an error object for status with the given detail.
func NewErrorObject(status int, detail string) ErrorObject {
	return ErrorObject{
		Status: strconv.Itoa(status),
		Title:  http.StatusText(status),
		Detail: detail,
	}
}

// Error sends a JSON:API error response.
// It checks if the error is an AppError to determine the status code.
// If it's not an AppError, it defaults to 500 Internal Server Error and the
// error is attached to the gin context for the logging middleware.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		obj := NewErrorObject(appErr.Code, appErr.Message)
		if appErr.Pointer != "" {
			obj.Source = &ErrorSource{Pointer: appErr.Pointer}
		}
		Errors(c, appErr.Code, obj)
		return
	}

	_ = c.Error(err)
	Errors(c, http.StatusInternalServerError, NewErrorObject(http.StatusInternalServerError, "internal server error"))
}

// Errors aborts the request with an error document.
func Errors(c *gin.Context, status int, errs ...ErrorObject) {
	c.Header("Content-Type", ContentType)
	c.AbortWithStatusJSON(status, ErrorDocument{Errors: errs})
}

// NotFound returns a handler answering 404 with detail, for gin's NoRoute.
func NotFound(detail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		Errors(c, http.StatusNotFound, NewErrorObject(http.StatusNotFound, detail))
	}
}
