package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/BerniceZTT/case_end/models"
	"github.com/BerniceZTT/case_end/repository"
	"github.com/BerniceZTT/case_end/utils"
)

// errInvalidCredentials 邮箱不存在与密码错误返回同一个错误
var errInvalidCredentials = utils.NewApiError("invalid email or password", http.StatusUnauthorized, "INVALID_CREDENTIALS")

// errEmailTaken 邮箱已被其他账户使用
var errEmailTaken = utils.NewValidationError([]utils.FieldError{{Field: "email", Message: "email is already registered"}})

// AuthService 登录与用户管理
type AuthService struct {
	users repository.UserRepository
}

// NewAuthService 创建认证服务
func NewAuthService(users repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Login 校验邮箱和密码, 成功后签发 token
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.Logger.Info().Str("email", email).Msg("login failed: unknown email")
			return nil, errInvalidCredentials
		}
		return nil, utils.CreateDatabaseError(err)
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		utils.Logger.Info().Int64("userId", user.ID).Msg("login failed: wrong password")
		return nil, errInvalidCredentials
	}

	token, err := utils.GenerateToken(*user)
	if err != nil {
		return nil, err
	}

	utils.Logger.Info().Int64("userId", user.ID).Str("role", string(user.Role)).Msg("login succeeded")
	return &models.LoginResponse{Token: token, User: *user}, nil
}

// CurrentUser 读取 token 对应的账户, 账户已删除时视为未授权
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.CreateUnauthorizedError()
		}
		return nil, utils.CreateDatabaseError(err)
	}
	return user, nil
}

// ListUsers 全部用户, 按姓名排序
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, utils.CreateDatabaseError(err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// CreateUser 新建用户, 密码以 bcrypt 哈希保存
func (s *AuthService) CreateUser(ctx context.Context, firstName, lastName, email, password string, role models.UserRole) (*models.User, error) {
	if !role.Valid() {
		return nil, utils.CreateBadRequestError("unknown role: " + string(role))
	}
	if strings.TrimSpace(password) == "" {
		return nil, utils.CreateBadRequestError("password is required")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	// 检查邮箱是否已注册
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, errEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, utils.CreateDatabaseError(err)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     email,
		Password:  hashed,
		Role:      role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// 并发注册时由唯一索引兜底
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errEmailTaken
		}
		return nil, utils.CreateDatabaseError(err)
	}

	utils.Logger.Info().Int64("userId", user.ID).Str("role", string(role)).Msg("user created")
	return user, nil
}
