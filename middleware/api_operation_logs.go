package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BerniceZTT/case_end/models"
	"github.com/BerniceZTT/case_end/repository"
	"github.com/BerniceZTT/case_end/utils"

	"github.com/gin-gonic/gin"
)

// saveTimeout 写入操作日志的超时时间
const saveTimeout = 3 * time.Second

// 需要记录的HTTP方法
var loggedMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// 不需要记录的路径
var excludedPaths = map[string]bool{
	"/api/auth/validate": true,
	"/api/health":        true,
	"/api/db-status":     true,
	"/api/auth/login":    true,
}

// OperationLoggerMiddleware 操作日志记录中间件
func OperationLoggerMiddleware(store repository.OperationLogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 检查是否需要记录此操作
		if !shouldLogOperation(c) {
			c.Next()
			return
		}

		startTime := time.Now()

		// 创建自定义响应写入器以捕获响应体
		blw := &bodyLogWriter{
			body:           bytes.NewBufferString(""),
			ResponseWriter: c.Writer,
		}
		c.Writer = blw

		// 读取并重置请求体
		var requestBody interface{}
		if c.Request.Body != nil {
			requestBodyBytes, err := io.ReadAll(c.Request.Body)
			if err != nil {
				utils.Logger.Error().Err(err).Msg("failed to read request body")
			} else {
				// 重置请求体，以便后续处理
				c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBodyBytes))
				requestBody = decodeBody(requestBodyBytes, c.Request.Header.Get("Content-Type"))
			}
		}

		// 处理请求
		c.Next()

		// 认证中间件在路由组内执行, 处理完成后才能取到用户
		operatorID, operatorName, operatorRole := extractUserInfo(c)

		// 获取错误信息（如果有）
		var errorMessage string
		if len(c.Errors) > 0 {
			errorMessage = c.Errors.String()
		}

		status := c.Writer.Status()
		operationLog := &models.OperationLog{
			RequestID:     RequestID(c),
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			Route:         c.FullPath(),
			OperatorID:    operatorID,
			OperatorName:  operatorName,
			OperatorRole:  operatorRole,
			RequestBody:   sanitizeData(requestBody),
			RequestHeader: sanitizeHeaders(c.Request.Header),
			ResponseData:  sanitizeData(decodeBody(blw.body.Bytes(), c.Writer.Header().Get("Content-Type"))),
			StatusCode:    status,
			Success:       status < http.StatusBadRequest,
			ErrorMessage:  errorMessage,
			OperationTime: startTime,
			ResponseTime:  time.Since(startTime).Milliseconds(),
			IPAddress:     getClientIP(c),
			UserAgent:     c.Request.UserAgent(),
		}

		saveOperationLog(store, operationLog)
	}
}

// saveOperationLog 保存操作日志, 失败时退化为只保存摘要
func saveOperationLog(store repository.OperationLogStore, operationLog *models.OperationLog) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	err := store.Save(ctx, operationLog)
	if err == nil {
		return
	}
	utils.Logger.Error().Err(err).Str("requestId", operationLog.RequestID).Msg("failed to save operation log")

	// 尝试保存最小日志
	minimalLog := *operationLog
	minimalLog.RequestBody = nil
	minimalLog.RequestHeader = nil
	minimalLog.ResponseData = nil
	minimalLog.ErrorMessage = fmt.Sprintf("failed to save detailed log: %v", err)
	if saveErr := store.Save(ctx, &minimalLog); saveErr != nil {
		utils.Logger.Error().Err(saveErr).Str("requestId", operationLog.RequestID).Msg("failed to save minimal operation log")
	}
}

// shouldLogOperation 检查是否需要记录此操作
func shouldLogOperation(c *gin.Context) bool {
	if excludedPaths[c.Request.URL.Path] {
		return false
	}
	return loggedMethods[c.Request.Method]
}

// decodeBody JSON 内容解析为结构化数据, 其余按字符串保存
func decodeBody(body []byte, contentType string) interface{} {
	if len(body) == 0 {
		return nil
	}
	if strings.Contains(contentType, "application/json") {
		var decoded interface{}
		if err := json.Unmarshal(body, &decoded); err == nil {
			return decoded
		}
	}
	return truncate(string(body))
}

// extractUserInfo 从上下文或Authorization头中提取用户信息
func extractUserInfo(c *gin.Context) (int64, string, string) {
	if user, err := utils.GetUser(c); err == nil {
		return user.ID, user.Username, string(user.Role)
	}

	// 未经过认证中间件时尝试直接解析token
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		if claims, err := utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer ")); err == nil {
			if user, err := utils.UserFromClaims(claims); err == nil {
				return user.ID, user.Username, string(user.Role)
			}
		}
	}

	return 0, "anonymous", "UNKNOWN"
}

// sanitizeData 清理数据中的敏感信息
func sanitizeData(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		sanitized := make(map[string]interface{}, len(v))
		for k, val := range v {
			switch strings.ToLower(k) {
			case "password", "token", "authorization", "secret", "key":
				sanitized[k] = "******"
			default:
				sanitized[k] = sanitizeData(val)
			}
		}
		return sanitized
	case []interface{}:
		sanitized := make([]interface{}, len(v))
		for i, val := range v {
			sanitized[i] = sanitizeData(val)
		}
		return sanitized
	}
	return data
}

// sanitizeHeaders 清理请求头中的敏感信息
func sanitizeHeaders(headers http.Header) map[string]interface{} {
	sanitized := make(map[string]interface{})
	for k, v := range headers {
		switch strings.ToLower(k) {
		case "authorization":
			if len(v) > 0 {
				sanitized[k] = getShortAuthHeader(v[0])
			}
		case "cookie", "x-api-key":
			sanitized[k] = "******"
		default:
			sanitized[k] = v
		}
	}
	return sanitized
}

// getClientIP 获取客户端IP地址
func getClientIP(c *gin.Context) string {
	// 尝试从各种可能的头获取真实IP
	if ip := c.Request.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := c.Request.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return c.ClientIP()
}
