package common

import (
	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope every handler writes
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorInfo describes a failed request
type ErrorInfo struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// SuccessResponse writes a 200 response with data
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(200, Response{Success: true, Data: data})
}

// SuccessResponseWithStatus writes a success response with a custom status code
func SuccessResponseWithStatus(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

// SuccessResponseWithMeta writes a 200 response with data and pagination meta
func SuccessResponseWithMeta(c *gin.Context, data interface{}, meta interface{}) {
	c.JSON(200, Response{Success: true, Data: data, Meta: meta})
}

// ErrorResponse writes an error response
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Success: false,
		Error:   &ErrorInfo{Code: status, Message: message},
	})
}

// ValidationErrorResponse writes a 400 response with field-level messages
func ValidationErrorResponse(c *gin.Context, message string, fields map[string]string) {
	c.JSON(400, Response{
		Success: false,
		Error:   &ErrorInfo{Code: 400, Message: message, Fields: fields},
	})
}

// AppErrorResponse writes an AppError using its own status code
func AppErrorResponse(c *gin.Context, err *AppError) {
	ErrorResponse(c, err.Code, err.Message)
}
