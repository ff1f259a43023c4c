package models

import (
	"strings"
	"time"
)

// UserRole 用户角色枚举
type UserRole string

const (
	UserRoleADMIN       UserRole = "ADMIN"       // 管理员
	UserRoleCASE_WORKER UserRole = "CASE_WORKER" // 个案社工
	UserRoleVOLUNTEER   UserRole = "VOLUNTEER"   // 志愿者
)

// Valid 是否为已知角色
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleADMIN, UserRoleCASE_WORKER, UserRoleVOLUNTEER:
		return true
	}
	return false
}

// User 用户
type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"size:100;not null" json:"firstName"`
	LastName  string    `gorm:"size:100;not null" json:"lastName"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // 不返回密码
	Role      UserRole  `gorm:"size:32;not null" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullName 显示用姓名
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserRef 嵌入到其他记录中的用户快照
type UserRef struct {
	UserID    int64  `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Ref 转换为用户快照
func (u User) Ref() UserRef {
	return UserRef{UserID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
}

// 各种请求和响应结构
type (
	// LoginRequest 登录请求
	LoginRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	// CreateUserRequest 管理员新建用户请求
	CreateUserRequest struct {
		FirstName string   `json:"firstName" binding:"required"`
		LastName  string   `json:"lastName" binding:"required"`
		Email     string   `json:"email" binding:"required,email"`
		Password  string   `json:"password" binding:"required,min=8"`
		Role      UserRole `json:"role" binding:"required,oneof=ADMIN CASE_WORKER VOLUNTEER"`
	}

	// LoginResponse 登录响应
	LoginResponse struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
)
