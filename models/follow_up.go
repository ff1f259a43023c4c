package models

import (
	"sort"
	"time"
)

// DateTimeLayout 接口中日期时间的格式
const DateTimeLayout = time.RFC3339

// DateLayout 日期格式
const DateLayout = "2006-01-02"

// TimeLayout 时长格式 HH:MM:SS
const TimeLayout = "15:04:05"

// FollowUp 客户跟进记录
type FollowUp struct {
	ID              int64             `gorm:"primaryKey"`
	ClientID        int64             `gorm:"not null;index"`
	Title           string            `gorm:"size:255"`
	Description     string            `gorm:"type:text"`
	DateOfContact   time.Time         `gorm:"not null"`
	AppointmentDate *time.Time
	Duration        string            `gorm:"size:8"`
	CreatedByID     int64             `gorm:"column:created_by;not null"`
	UpdatedByID     int64             `gorm:"column:updated_by;not null"`
	Creator         User              `gorm:"foreignKey:CreatedByID"`
	Updater         User              `gorm:"foreignKey:UpdatedByID"`
	Services        []FollowUpService `gorm:"foreignKey:FollowUpID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FollowUpService 跟进记录与服务的关联
type FollowUpService struct {
	ServiceID  int64 `gorm:"primaryKey;autoIncrement:false"`
	FollowUpID int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

// FollowUpView 跟进记录展示结构, 合并了服务与用户信息
type FollowUpView struct {
	ID              int64      `json:"id"`
	ClientID        int64      `json:"clientId"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DateOfContact   time.Time  `json:"dateOfContact"`
	AppointmentDate *time.Time `json:"appointmentDate"`
	Duration        string     `json:"duration"`
	ServiceIDs      []int64    `json:"serviceIds"`
	CreatedBy       UserRef    `json:"createdBy"`
	LastUpdatedBy   UserRef    `json:"lastUpdatedBy"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// View 转换为展示结构, 关联数据需已预加载
func (f FollowUp) View() FollowUpView {
	serviceIDs := make([]int64, 0, len(f.Services))
	for _, s := range f.Services {
		serviceIDs = append(serviceIDs, s.ServiceID)
	}
	sort.Slice(serviceIDs, func(i, j int) bool { return serviceIDs[i] < serviceIDs[j] })

	view := FollowUpView{
		ID:            f.ID,
		ClientID:      f.ClientID,
		Title:         f.Title,
		Description:   f.Description,
		DateOfContact: f.DateOfContact.UTC(),
		Duration:      f.Duration,
		ServiceIDs:    serviceIDs,
		CreatedBy:     f.Creator.Ref(),
		LastUpdatedBy: f.Updater.Ref(),
		CreatedAt:     f.CreatedAt.UTC(),
		UpdatedAt:     f.UpdatedAt.UTC(),
	}
	if f.AppointmentDate != nil {
		appointment := f.AppointmentDate.UTC()
		view.AppointmentDate = &appointment
	}
	return view
}

// CreateFollowUpInput 新建跟进记录的输入, 已通过校验
type CreateFollowUpInput struct {
	ServiceIDs      []int64
	Title           string
	Description     string
	DateOfContact   time.Time
	AppointmentDate *time.Time
	Duration        string
}

// UpdateFollowUpInput 更新跟进记录的输入, 未出现的字段保持原值
type UpdateFollowUpInput struct {
	ServiceIDs         []int64
	ServiceIDsSet      bool
	Title              *string
	Description        *string
	DateOfContact      *time.Time
	AppointmentDate    *time.Time
	AppointmentDateSet bool
}

// FollowUpChanges 写回跟进记录主表的字段
type FollowUpChanges struct {
	Title           string
	Description     string
	DateOfContact   time.Time
	AppointmentDate *time.Time
	UpdatedByID     int64
}
