package models

import "time"

// Service 项目与服务目录
type Service struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:150;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"not null" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateServiceRequest 新建服务请求
type CreateServiceRequest struct {
	Name        string `json:"name" binding:"required,max=150"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// UpdateServiceRequest 更新服务请求
type UpdateServiceRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=150"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}
