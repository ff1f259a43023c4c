package repository

import (
	"context"
	"strings"

	"github.com/BerniceZTT/case_end/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClientRepository 客户数据访问
type ClientRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Client, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context, search models.ClientSearch) (int64, error)
	List(ctx context.Context, search models.ClientSearch, offset, limit int) ([]models.Client, error)
	Create(ctx context.Context, client *models.Client) error
}

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository 创建客户仓库
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).Preload("Creator").First(&client, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &client, nil
}

func (r *clientRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Client{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *clientRepository) Count(ctx context.Context, search models.ClientSearch) (int64, error) {
	var total int64
	err := applyClientSearch(r.db.WithContext(ctx).Model(&models.Client{}), search).Count(&total).Error
	return total, err
}

func (r *clientRepository) List(ctx context.Context, search models.ClientSearch, offset, limit int) ([]models.Client, error) {
	var clients []models.Client
	err := applyClientSearch(r.db.WithContext(ctx).Model(&models.Client{}), search).
		Preload("Creator").
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(client).Error
}

// applyClientSearch 姓名模糊匹配, 邮编前缀匹配, 电话包含匹配
func applyClientSearch(query *gorm.DB, search models.ClientSearch) *gorm.DB {
	if name := strings.TrimSpace(search.Name); name != "" {
		query = query.Where("LOWER(first_name || ' ' || last_name) LIKE ?", "%"+escapeLike(strings.ToLower(name))+"%")
	}
	if zip := strings.TrimSpace(search.Zip); zip != "" {
		query = query.Where("zip LIKE ?", escapeLike(zip)+"%")
	}
	if phone := strings.TrimSpace(search.Phone); phone != "" {
		query = query.Where("phone LIKE ?", "%"+escapeLike(phone)+"%")
	}
	return query
}

// escapeLike 去掉用户输入中的 LIKE 通配符
func escapeLike(value string) string {
	return strings.NewReplacer(`%`, "", `_`, "").Replace(value)
}
