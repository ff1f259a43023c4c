package repository

import (
	"context"
	"fmt"

	"github.com/BerniceZTT/case_end/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowUpRepository 跟进记录数据访问, 多语句写入都在同一事务内完成
type FollowUpRepository interface {
	// Create 写入跟进记录, 关联服务与活动日志, entry.DetailID 由新记录 id 填充
	Create(ctx context.Context, followUp *models.FollowUp, serviceIDs []int64, entry *models.ClientLog) error
	// Update 覆盖主表字段; replaceServices 为 true 时先删除再重建关联服务
	Update(ctx context.Context, id int64, changes models.FollowUpChanges, serviceIDs []int64, replaceServices bool) error
	GetByID(ctx context.Context, id int64) (*models.FollowUp, error)
	ListByClient(ctx context.Context, clientID int64) ([]models.FollowUp, error)
}

type followUpRepository struct {
	db   *gorm.DB
	logs ClientLogRepository
}

// NewFollowUpRepository 创建跟进记录仓库
func NewFollowUpRepository(db *gorm.DB, logs ClientLogRepository) FollowUpRepository {
	return &followUpRepository{db: db, logs: logs}
}

func (r *followUpRepository) Create(ctx context.Context, followUp *models.FollowUp, serviceIDs []int64, entry *models.ClientLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(followUp).Error; err != nil {
			return fmt.Errorf("insert follow-up: %w", err)
		}

		if err := insertFollowUpServices(tx, followUp.ID, serviceIDs); err != nil {
			return err
		}

		if entry != nil {
			entry.DetailID = followUp.ID
			if err := r.logs.Append(ctx, tx, entry); err != nil {
				return fmt.Errorf("insert client log: %w", err)
			}
		}
		return nil
	})
}

func (r *followUpRepository) Update(ctx context.Context, id int64, changes models.FollowUpChanges, serviceIDs []int64, replaceServices bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if replaceServices {
			if err := tx.Where("follow_up_id = ?", id).Delete(&models.FollowUpService{}).Error; err != nil {
				return fmt.Errorf("delete follow-up services: %w", err)
			}
		}

		result := tx.Model(&models.FollowUp{}).Where("id = ?", id).Updates(map[string]interface{}{
			"title":            changes.Title,
			"description":      changes.Description,
			"date_of_contact":  changes.DateOfContact,
			"appointment_date": changes.AppointmentDate,
			"updated_by":       changes.UpdatedByID,
		})
		if result.Error != nil {
			return fmt.Errorf("update follow-up: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		if replaceServices {
			return insertFollowUpServices(tx, id, serviceIDs)
		}
		return nil
	})
}

func (r *followUpRepository) GetByID(ctx context.Context, id int64) (*models.FollowUp, error) {
	var followUp models.FollowUp
	err := r.withDetails(r.db.WithContext(ctx)).First(&followUp, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &followUp, nil
}

func (r *followUpRepository) ListByClient(ctx context.Context, clientID int64) ([]models.FollowUp, error) {
	var followUps []models.FollowUp
	err := r.withDetails(r.db.WithContext(ctx)).
		Where("client_id = ?", clientID).
		Order("date_of_contact DESC").
		Order("id DESC").
		Find(&followUps).Error
	if err != nil {
		return nil, err
	}
	return followUps, nil
}

// withDetails 预加载服务与创建人/更新人
func (r *followUpRepository) withDetails(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Services", func(db *gorm.DB) *gorm.DB { return db.Order("service_id ASC") }).
		Preload("Creator").
		Preload("Updater")
}

// insertFollowUpServices 每个服务 id 写入一条关联记录
func insertFollowUpServices(tx *gorm.DB, followUpID int64, serviceIDs []int64) error {
	if len(serviceIDs) == 0 {
		return nil
	}
	rows := make([]models.FollowUpService, 0, len(serviceIDs))
	for _, serviceID := range serviceIDs {
		rows = append(rows, models.FollowUpService{ServiceID: serviceID, FollowUpID: followUpID})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("insert follow-up services: %w", err)
	}
	return nil
}
