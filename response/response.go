package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope shared by every endpoint
type Response struct {
	Code      int         `json:"code"`
	Mess      string      `json:"mess"`
	ErrorKind string      `json:"errorKind,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// Success returns a successful response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Success",
		Data: data,
	})
}

// Error returns an error response
func Error(c *gin.Context, code int, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Code: code,
		Mess: message,
	})
}

// BusinessError returns a typed business failure with its error kind
func BusinessError(c *gin.Context, status int, kind, message string) {
	c.JSON(status, Response{
		Code:      0,
		Mess:      message,
		ErrorKind: kind,
	})
}

// ServerError returns a server error response
func ServerError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, Response{
		Code: 0,
		Mess: "Server error",
	})
}

// Unauthorized returns an unauthenticated response
func Unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, Response{
		Code: 0,
		Mess: "Unauthorized",
	})
}

// Forbidden returns a forbidden response
func Forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, Response{
		Code: 0,
		Mess: "Forbidden",
	})
}

// NotFound returns a not-found response
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, Response{
		Code: 0,
		Mess: "Not found",
	})
}

// ValidationError returns a validation error response
func ValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Code: 0,
		Mess: message,
	})
}

// BadRequest returns a bad request response
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Code: 0,
		Mess: message,
	})
}
