package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/BerniceZTT/case_end/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// LoginUser 当前登录用户
type LoginUser struct {
	ID       int64           `json:"id"`
	Role     models.UserRole `json:"role"`
	Username string          `json:"username"`
}

// GetUser 从上下文中取出当前登录用户
func GetUser(c *gin.Context) (*LoginUser, error) {
	currentUser, exists := c.Get("user")
	if !exists {
		return nil, CreateUnauthorizedError()
	}

	// 处理不同类型的 claims
	var claims map[string]interface{}
	switch v := currentUser.(type) {
	case jwt.MapClaims:
		claims = map[string]interface{}(v)
	case map[string]interface{}:
		claims = v
	case *LoginUser:
		return v, nil
	default:
		data, err := json.Marshal(currentUser)
		if err != nil {
			return nil, fmt.Errorf("marshal user claims: %w", err)
		}
		if err := json.Unmarshal(data, &claims); err != nil {
			return nil, fmt.Errorf("unmarshal user claims: %w", err)
		}
	}

	return UserFromClaims(claims)
}

// UserFromClaims 把 token 负载转换为登录用户
func UserFromClaims(claims map[string]interface{}) (*LoginUser, error) {
	id, ok := claimID(claims["id"])
	if !ok {
		return nil, NewApiError("invalid user id", http.StatusUnauthorized, "INVALID_TOKEN")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return nil, NewApiError("invalid user role", http.StatusUnauthorized, "INVALID_TOKEN")
	}
	username, _ := claims["username"].(string)

	return &LoginUser{
		ID:       id,
		Role:     models.UserRole(role),
		Username: username,
	}, nil
}

// claimID JSON 数字解码为 float64, 字符串形式也兼容
func claimID(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case float64:
		if v <= 0 || v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case int64:
		return v, v > 0
	case int:
		return int64(v), v > 0
	case json.Number:
		id, err := v.Int64()
		return id, err == nil && id > 0
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		return id, err == nil && id > 0
	}
	return 0, false
}

// Pagination 分页信息
type Pagination struct {
	NumClients  int64 `json:"numClients"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	NumPages    int   `json:"numPages"`
}

// ParsePage 解析页码, 非数字或小于1时返回1
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ClampPage 超出最后一页时回到第一页
func ClampPage(page int, total int64, pageSize int) int {
	if pageSize <= 0 || page < 1 {
		return 1
	}
	lastPage := NumPages(total, pageSize)
	if lastPage == 0 || page > lastPage {
		return 1
	}
	return page
}

// NumPages 计算总页数
func NumPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
