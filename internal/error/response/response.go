package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zYagamiBR/hoa-helper/internal/error/code"
)

// ErrorResponse is the body written for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// MessageResponse is the body written by operations without a payload
type MessageResponse struct {
	Message string `json:"message"`
}

// Success writes data as the 200 response body
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created writes data as the 201 response body
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Message writes a {"message": ...} 200 response
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// Fail writes the default message of errorCode
func Fail(c *gin.Context, errorCode int) {
	FailWithMessage(c, errorCode, code.GetMessage(errorCode))
}

// FailWithMessage writes a custom message with the status mapped from errorCode
func FailWithMessage(c *gin.Context, errorCode int, message string) {
	if message == "" {
		message = code.GetMessage(errorCode)
	}
	c.AbortWithStatusJSON(code.GetStatus(errorCode), ErrorResponse{
		Error: message,
		Code:  errorCode,
	})
}

// ParamError writes a validation failure
func ParamError(c *gin.Context, message string) {
	FailWithMessage(c, code.ErrValidation, message)
}

// ServerError writes an unknown failure
func ServerError(c *gin.Context) {
	Fail(c, code.ErrUnknown)
}

// NotFound writes a record-not-found failure
func NotFound(c *gin.Context, message string) {
	FailWithMessage(c, code.ErrRecordNotFound, message)
}
