package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/BerniceZTT/case_end/models"
	"github.com/BerniceZTT/case_end/repository"
	"github.com/BerniceZTT/case_end/utils"
)

// ClientPage 客户列表的一页
type ClientPage struct {
	Clients    []models.ClientView `json:"clients"`
	Pagination utils.Pagination    `json:"pagination"`
}

// ClientService 客户列表, 详情与录入
type ClientService struct {
	clients  repository.ClientRepository
	logs     repository.ClientLogRepository
	pageSize int
}

// NewClientService 创建客户服务, pageSize 为默认每页条数
func NewClientService(clients repository.ClientRepository, logs repository.ClientLogRepository, pageSize int) *ClientService {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &ClientService{clients: clients, logs: logs, pageSize: pageSize}
}

// List 分页检索客户, 页码超出范围时回到第一页
func (s *ClientService) List(ctx context.Context, search models.ClientSearch, page, pageSize int) (*ClientPage, error) {
	if pageSize <= 0 {
		pageSize = s.pageSize
	}

	total, err := s.clients.Count(ctx, search)
	if err != nil {
		return nil, utils.CreateDatabaseError(err)
	}
	page = utils.ClampPage(page, total, pageSize)

	clients, err := s.clients.List(ctx, search, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, utils.CreateDatabaseError(err)
	}

	views := make([]models.ClientView, 0, len(clients))
	for _, c := range clients {
		views = append(views, c.View())
	}

	return &ClientPage{
		Clients: views,
		Pagination: utils.Pagination{
			NumClients:  total,
			CurrentPage: page,
			PageSize:    pageSize,
			NumPages:    utils.NumPages(total, pageSize),
		},
	}, nil
}

// Get 客户详情
func (s *ClientService) Get(ctx context.Context, clientID int64) (*models.ClientView, error) {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.CreateNotFoundError("client")
		}
		return nil, utils.CreateDatabaseError(err)
	}
	view := client.View()
	return &view, nil
}

// Create 录入新客户
func (s *ClientService) Create(ctx context.Context, actor *utils.LoginUser, req models.CreateClientRequest) (*models.ClientView, error) {
	client := &models.Client{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Zip:         strings.TrimSpace(req.Zip),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       strings.TrimSpace(req.Email),
		CreatedByID: actor.ID,
	}
	if req.Birthday != "" {
		birthday, err := time.Parse(models.DateLayout, req.Birthday)
		if err != nil {
			return nil, utils.NewValidationError([]utils.FieldError{{Field: "birthday", Message: "birthday must be a date (YYYY-MM-DD)"}})
		}
		client.Birthday = &birthday
	}

	if err := s.clients.Create(ctx, client); err != nil {
		return nil, utils.CreateDatabaseError(err)
	}

	utils.LogInfo(map[string]interface{}{
		"clientId": client.ID,
		"userId":   actor.ID,
	}, "client created")

	return s.Get(ctx, client.ID)
}

// ListLogs 客户的活动日志, 最新的在前
func (s *ClientService) ListLogs(ctx context.Context, clientID int64) ([]models.ClientLog, error) {
	exists, err := s.clients.Exists(ctx, clientID)
	if err != nil {
		return nil, utils.CreateDatabaseError(err)
	}
	if !exists {
		return nil, utils.CreateNotFoundError("client")
	}

	logs, err := s.logs.ListByClient(ctx, clientID)
	if err != nil {
		return nil, utils.CreateDatabaseError(err)
	}
	if logs == nil {
		logs = []models.ClientLog{}
	}
	return logs, nil
}
