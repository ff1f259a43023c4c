package repository

import (
	"context"

	"github.com/BerniceZTT/case_end/models"

	"gorm.io/gorm"
)

// ServiceRepository 服务目录数据访问
type ServiceRepository interface {
	List(ctx context.Context, includeInactive bool) ([]models.Service, error)
	GetByID(ctx context.Context, id int64) (*models.Service, error)
	Create(ctx context.Context, service *models.Service) error
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	MissingIDs(ctx context.Context, ids []int64) ([]int64, error)
	InactiveIDs(ctx context.Context, ids []int64) ([]int64, error)
}

type serviceRepository struct {
	db *gorm.DB
}

// NewServiceRepository 创建服务目录仓库
func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) List(ctx context.Context, includeInactive bool) ([]models.Service, error) {
	var services []models.Service
	query := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id int64) (*models.Service, error) {
	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &service, nil
}

func (r *serviceRepository) Create(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

func (r *serviceRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Service{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MissingIDs 返回目录中不存在的服务 id
func (r *serviceRepository) MissingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []int64
	if err := r.db.WithContext(ctx).Model(&models.Service{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	existing := make(map[int64]bool, len(found))
	for _, id := range found {
		existing[id] = true
	}
	var missing []int64
	for _, id := range ids {
		if !existing[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// InactiveIDs 返回已停用的服务 id, 按 id 升序
func (r *serviceRepository) InactiveIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var inactive []int64
	err := r.db.WithContext(ctx).
		Model(&models.Service{}).
		Where("id IN ? AND is_active = ?", ids, false).
		Order("id ASC").
		Pluck("id", &inactive).Error
	if err != nil {
		return nil, err
	}
	return inactive, nil
}
