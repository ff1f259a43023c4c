package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ApiError 自定义API错误
type ApiError struct {
	StatusCode int
	Message    string
	ErrorCode  string
	Err        error
}

// Error 实现error接口
func (e *ApiError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap 返回底层错误
func (e *ApiError) Unwrap() error {
	return e.Err
}

// NewApiError 创建API错误
func NewApiError(message string, statusCode int, errorCode string) *ApiError {
	return &ApiError{
		StatusCode: statusCode,
		Message:    message,
		ErrorCode:  errorCode,
	}
}

// CreateNotFoundError 创建资源不存在错误
func CreateNotFoundError(resource string) *ApiError {
	return NewApiError(resource+" not found", http.StatusNotFound, "RESOURCE_NOT_FOUND")
}

// CreateUnauthorizedError 创建未授权错误
func CreateUnauthorizedError() *ApiError {
	return NewApiError("unauthorized", http.StatusUnauthorized, "UNAUTHORIZED")
}

// CreateBadRequestError 创建错误请求错误
func CreateBadRequestError(message string) *ApiError {
	return NewApiError(message, http.StatusBadRequest, "BAD_REQUEST")
}

// CreateDatabaseError 包装数据库错误, 对外只暴露通用信息
func CreateDatabaseError(err error) *ApiError {
	apiErr := NewApiError("database error", http.StatusInternalServerError, "DATABASE_ERROR")
	apiErr.Err = err
	return apiErr
}

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError 请求参数校验失败, 包含所有失败字段
type ValidationError struct {
	Errors []FieldError
}

// Error 实现error接口
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %d field error(s)", len(e.Errors))
}

// NewValidationError 创建校验错误, 没有字段错误时返回 nil
func NewValidationError(fieldErrors []FieldError) error {
	if len(fieldErrors) == 0 {
		return nil
	}
	return &ValidationError{Errors: fieldErrors}
}

// HandleError 处理错误并返回适当的响应
func HandleError(c *gin.Context, err error) {
	if c == nil || err == nil {
		return
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		Logger.Info().
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Interface("errors", validationErr.Errors).
			Msg("invalid request")
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error":   "invalid request",
			"code":    "INVALID_REQUEST",
			"errors":  validationErr.Errors,
		})
		return
	}

	// 记录详细错误信息
	LogError(err, map[string]interface{}{
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	}, "api error")

	// 处理API错误
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		response := gin.H{"success": false, "error": apiErr.Message}
		if apiErr.ErrorCode != "" {
			response["code"] = apiErr.ErrorCode
		}
		c.JSON(apiErr.StatusCode, response)
		return
	}

	// 其他未预期的错误
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "internal server error",
	})
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, data interface{}, message string, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	response := gin.H{"success": true}
	if data != nil {
		response["data"] = data
	}
	if message != "" {
		response["message"] = message
	}

	c.JSON(code, response)
}
