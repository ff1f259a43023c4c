package utils

import (
	"fmt"
	"time"

	"github.com/BerniceZTT/case_end/models"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL token 有效期
const tokenTTL = 30 * 24 * time.Hour

var jwtSecret = []byte("your-secret-key")

// SetJWTSecret 设置签名密钥, 服务启动时由配置注入
func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

// HashPassword 使用 bcrypt 哈希密码
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword 验证密码
func VerifyPassword(password string, hashedPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// GenerateToken 生成JWT令牌
func GenerateToken(user models.User) (string, error) {
	Logger.Info().
		Int64("id", user.ID).
		Str("username", user.FullName()).
		Str("role", string(user.Role)).
		Msg("generating token")

	now := time.Now()
	claims := jwt.MapClaims{
		"id":       user.ID,
		"username": user.FullName(),
		"role":     string(user.Role),
		"exp":      now.Add(tokenTTL).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		Logger.Error().Err(err).Msg("failed to sign token")
		return "", err
	}
	return tokenString, nil
}

// ParseToken 解析和验证JWT令牌
func ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// 验证签名方法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// HasPermission 检查角色是否可以对资源执行操作
func HasPermission(role models.UserRole, resource string, action string) bool {
	// 管理员拥有所有权限
	if role == models.UserRoleADMIN {
		return true
	}

	permissions := map[models.UserRole]map[string][]string{
		models.UserRoleCASE_WORKER: {
			"clients":    {"read", "create", "update"},
			"follow-ups": {"read", "create", "update"},
			"services":   {"read"},
		},
		models.UserRoleVOLUNTEER: {
			"clients":    {"read"},
			"follow-ups": {"read", "create"},
			"services":   {"read"},
		},
	}

	if resourceActions, exists := permissions[role]; exists {
		for _, a := range resourceActions[resource] {
			if a == action {
				return true
			}
		}
	}
	return false
}
