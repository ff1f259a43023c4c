package repository

import (
	"context"

	"github.com/BerniceZTT/case_end/models"

	"gorm.io/gorm"
)

// ClientLogRepository 客户活动日志, 只追加
type ClientLogRepository interface {
	// Append 追加一条日志, tx 不为空时在该事务中写入
	Append(ctx context.Context, tx *gorm.DB, entry *models.ClientLog) error
	ListByClient(ctx context.Context, clientID int64) ([]models.ClientLog, error)
}

type clientLogRepository struct {
	db *gorm.DB
}

// NewClientLogRepository 创建活动日志仓库
func NewClientLogRepository(db *gorm.DB) ClientLogRepository {
	return &clientLogRepository{db: db}
}

func (r *clientLogRepository) Append(ctx context.Context, tx *gorm.DB, entry *models.ClientLog) error {
	return conn(r.db, tx).WithContext(ctx).Create(entry).Error
}

func (r *clientLogRepository) ListByClient(ctx context.Context, clientID int64) ([]models.ClientLog, error) {
	var logs []models.ClientLog
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
