package models

import (
	"strings"
	"time"
)

// Client 服务对象(个案)
type Client struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	FirstName   string     `gorm:"size:100;not null" json:"firstName"`
	LastName    string     `gorm:"size:100;not null" json:"lastName"`
	Zip         string     `gorm:"size:16" json:"zip"`
	Birthday    *time.Time `gorm:"type:date" json:"birthday"`
	Phone       string     `gorm:"size:32" json:"phone"`
	Email       string     `gorm:"size:255" json:"email"`
	CreatedByID int64      `gorm:"column:created_by;not null" json:"-"`
	Creator     User       `gorm:"foreignKey:CreatedByID" json:"-"`
	CreatedAt   time.Time  `json:"dateAdded"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ClientCreator 客户列表中的创建人
type ClientCreator struct {
	UserID   int64  `json:"userId"`
	FullName string `json:"fullName"`
}

// ClientView 客户列表展示结构
type ClientView struct {
	ID        int64         `json:"id"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	FullName  string        `json:"fullName"`
	Zip       string        `json:"zip"`
	Birthday  *string       `json:"birthday"`
	Phone     string        `json:"phone"`
	Email     string        `json:"email"`
	DateAdded time.Time     `json:"dateAdded"`
	CreatedBy ClientCreator `json:"createdBy"`
}

// View 转换为展示结构, Creator 需已预加载
func (c Client) View() ClientView {
	view := ClientView{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  strings.TrimSpace(c.FirstName + " " + c.LastName),
		Zip:       c.Zip,
		Phone:     c.Phone,
		Email:     c.Email,
		DateAdded: c.CreatedAt,
		CreatedBy: ClientCreator{UserID: c.CreatedByID, FullName: c.Creator.FullName()},
	}
	if c.Birthday != nil {
		birthday := c.Birthday.Format(DateLayout)
		view.Birthday = &birthday
	}
	return view
}

// ClientSearch 客户列表检索条件
type ClientSearch struct {
	Name  string
	Zip   string
	Phone string
}

// CreateClientRequest 新建客户请求
type CreateClientRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Zip       string `json:"zip"`
	Birthday  string `json:"birthday" binding:"omitempty,datetime=2006-01-02"`
	Phone     string `json:"phone"`
	Email     string `json:"email" binding:"omitempty,email"`
}
