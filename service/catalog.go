package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BerniceZTT/case_end/models"
	"github.com/BerniceZTT/case_end/repository"
	"github.com/BerniceZTT/case_end/utils"
)

// CatalogService 项目与服务目录的维护
type CatalogService struct {
	services repository.ServiceRepository
}

// NewCatalogService 创建服务目录服务
func NewCatalogService(services repository.ServiceRepository) *CatalogService {
	return &CatalogService{services: services}
}

// List 默认只返回启用中的服务
func (s *CatalogService) List(ctx context.Context, includeInactive bool) ([]models.Service, error) {
	services, err := s.services.List(ctx, includeInactive)
	if err != nil {
		return nil, utils.CreateDatabaseError(err)
	}
	if services == nil {
		services = []models.Service{}
	}
	return services, nil
}

// Create 新建服务, 未指定 isActive 时默认启用
func (s *CatalogService) Create(ctx context.Context, req models.CreateServiceRequest) (*models.Service, error) {
	service := &models.Service{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}
	if service.Name == "" {
		return nil, utils.NewValidationError([]utils.FieldError{{Field: "name", Message: "name is required"}})
	}

	if err := s.services.Create(ctx, service); err != nil {
		return nil, utils.CreateDatabaseError(err)
	}

	utils.LogInfo(map[string]interface{}{"serviceId": service.ID, "name": service.Name}, "service created")
	return service, nil
}

// Update 只修改请求中出现的字段
func (s *CatalogService) Update(ctx context.Context, serviceID int64, req models.UpdateServiceRequest) (*models.Service, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, utils.NewValidationError([]utils.FieldError{{Field: "name", Message: "name must not be empty"}})
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return nil, utils.CreateBadRequestError("no fields to update")
	}

	if err := s.services.Update(ctx, serviceID, updates); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.CreateNotFoundError("service")
		}
		return nil, utils.CreateDatabaseError(err)
	}

	service, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, utils.CreateDatabaseError(err)
	}
	utils.LogInfo(map[string]interface{}{"serviceId": serviceID, "fields": len(updates)}, "service updated")
	return service, nil
}
