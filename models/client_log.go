package models

import "time"

// LogTypeFollowUp 跟进记录产生的日志类型
const LogTypeFollowUp = "follow-up"

// ClientLog 客户活动日志, 只追加不修改
type ClientLog struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	DetailID    int64     `gorm:"not null;index" json:"detailId"`
	ClientID    int64     `gorm:"not null;index" json:"clientId"`
	Title       string    `gorm:"size:255" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	LogType     string    `gorm:"size:50;not null" json:"logType"`
	AddedBy     int64     `gorm:"not null" json:"addedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}
