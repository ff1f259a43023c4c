package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BerniceZTT/case_end/metrics"
	"github.com/BerniceZTT/case_end/models"
	"github.com/BerniceZTT/case_end/repository"
	"github.com/BerniceZTT/case_end/utils"
)

// FollowUpService 跟进记录的创建, 更新与读取
type FollowUpService struct {
	followUps repository.FollowUpRepository
	clients   repository.ClientRepository
	users     repository.UserRepository
	services  repository.ServiceRepository
}

// NewFollowUpService 创建跟进记录服务
func NewFollowUpService(
	followUps repository.FollowUpRepository,
	clients repository.ClientRepository,
	users repository.UserRepository,
	services repository.ServiceRepository,
) *FollowUpService {
	return &FollowUpService{
		followUps: followUps,
		clients:   clients,
		users:     users,
		services:  services,
	}
}

// Create 写入跟进记录, 关联服务与一条活动日志, 返回重新读取的完整记录
func (s *FollowUpService) Create(ctx context.Context, actor *utils.LoginUser, clientID int64, input models.CreateFollowUpInput) (*models.FollowUpView, error) {
	if err := s.ensureClient(ctx, clientID); err != nil {
		return nil, err
	}
	if err := s.ensureServices(ctx, input.ServiceIDs, nil); err != nil {
		return nil, err
	}

	followUp := &models.FollowUp{
		ClientID:        clientID,
		Title:           input.Title,
		Description:     input.Description,
		DateOfContact:   input.DateOfContact,
		AppointmentDate: input.AppointmentDate,
		Duration:        input.Duration,
		CreatedByID:     actor.ID,
		UpdatedByID:     actor.ID,
	}
	entry := &models.ClientLog{
		ClientID:    clientID,
		Title:       input.Title,
		Description: input.Description,
		LogType:     models.LogTypeFollowUp,
		AddedBy:     actor.ID,
	}

	if err := s.followUps.Create(ctx, followUp, input.ServiceIDs, entry); err != nil {
		return nil, utils.CreateDatabaseError(err)
	}
	metrics.FollowUpsWritten.WithLabelValues("create").Inc()

	utils.LogInfo(map[string]interface{}{
		"followUpId": followUp.ID,
		"clientId":   clientID,
		"serviceIds": input.ServiceIDs,
		"userId":     actor.ID,
	}, "follow-up created")

	return s.read(ctx, followUp.ID)
}

// Update 合并请求字段与当前记录后写回, 提供 serviceIds 时整体替换服务集合
func (s *FollowUpService) Update(ctx context.Context, actor *utils.LoginUser, clientID, followUpID int64, input models.UpdateFollowUpInput) (*models.FollowUpView, error) {
	current, err := s.Get(ctx, clientID, followUpID)
	if err != nil {
		return nil, err
	}

	editor, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.CreateUnauthorizedError()
		}
		return nil, utils.CreateDatabaseError(err)
	}

	if input.ServiceIDsSet {
		// 已关联的停用服务可以保留
		if err := s.ensureServices(ctx, input.ServiceIDs, current.ServiceIDs); err != nil {
			return nil, err
		}
	}

	changes := mergeFollowUp(*current, input, editor.ID)
	if err := s.followUps.Update(ctx, followUpID, changes, input.ServiceIDs, input.ServiceIDsSet); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.CreateNotFoundError("follow-up")
		}
		return nil, utils.CreateDatabaseError(err)
	}
	metrics.FollowUpsWritten.WithLabelValues("update").Inc()

	utils.LogInfo(map[string]interface{}{
		"followUpId":       followUpID,
		"clientId":         clientID,
		"replacedServices": input.ServiceIDsSet,
		"userId":           editor.ID,
	}, "follow-up updated")

	return s.read(ctx, followUpID)
}

// Get 读取某个客户下的一条跟进记录
func (s *FollowUpService) Get(ctx context.Context, clientID, followUpID int64) (*models.FollowUpView, error) {
	view, err := s.read(ctx, followUpID)
	if err != nil {
		return nil, err
	}
	if view.ClientID != clientID {
		return nil, utils.CreateNotFoundError("follow-up")
	}
	return view, nil
}

// ListByClient 客户的全部跟进记录, 最近联系的在前
func (s *FollowUpService) ListByClient(ctx context.Context, clientID int64) ([]models.FollowUpView, error) {
	if err := s.ensureClient(ctx, clientID); err != nil {
		return nil, err
	}
	followUps, err := s.followUps.ListByClient(ctx, clientID)
	if err != nil {
		return nil, utils.CreateDatabaseError(err)
	}
	views := make([]models.FollowUpView, 0, len(followUps))
	for _, f := range followUps {
		views = append(views, f.View())
	}
	return views, nil
}

func (s *FollowUpService) read(ctx context.Context, followUpID int64) (*models.FollowUpView, error) {
	followUp, err := s.followUps.GetByID(ctx, followUpID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.CreateNotFoundError("follow-up")
		}
		return nil, utils.CreateDatabaseError(err)
	}
	view := followUp.View()
	return &view, nil
}

func (s *FollowUpService) ensureClient(ctx context.Context, clientID int64) error {
	exists, err := s.clients.Exists(ctx, clientID)
	if err != nil {
		return utils.CreateDatabaseError(err)
	}
	if !exists {
		return utils.CreateNotFoundError("client")
	}
	return nil
}

// ensureServices 服务 id 必须存在且处于启用状态, attached 中的 id 不检查启用状态
func (s *FollowUpService) ensureServices(ctx context.Context, serviceIDs, attached []int64) error {
	missing, err := s.services.MissingIDs(ctx, serviceIDs)
	if err != nil {
		return utils.CreateDatabaseError(err)
	}
	if len(missing) > 0 {
		return utils.NewValidationError([]utils.FieldError{{
			Field:   "serviceIds",
			Message: "unknown service ids: " + joinIDs(missing),
		}})
	}

	inactive, err := s.services.InactiveIDs(ctx, serviceIDs)
	if err != nil {
		return utils.CreateDatabaseError(err)
	}
	kept := make(map[int64]bool, len(attached))
	for _, id := range attached {
		kept[id] = true
	}
	var rejected []int64
	for _, id := range inactive {
		if !kept[id] {
			rejected = append(rejected, id)
		}
	}
	if len(rejected) == 0 {
		return nil
	}
	return utils.NewValidationError([]utils.FieldError{{
		Field:   "serviceIds",
		Message: "inactive service ids: " + joinIDs(rejected),
	}})
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprint(id))
	}
	return strings.Join(parts, ", ")
}

// mergeFollowUp 请求中出现的字段覆盖当前值, 其余保持不变
func mergeFollowUp(current models.FollowUpView, input models.UpdateFollowUpInput, editorID int64) models.FollowUpChanges {
	changes := models.FollowUpChanges{
		Title:           current.Title,
		Description:     current.Description,
		DateOfContact:   current.DateOfContact,
		AppointmentDate: current.AppointmentDate,
		UpdatedByID:     editorID,
	}
	if input.Title != nil {
		changes.Title = *input.Title
	}
	if input.Description != nil {
		changes.Description = *input.Description
	}
	if input.DateOfContact != nil {
		changes.DateOfContact = *input.DateOfContact
	}
	if input.AppointmentDateSet {
		changes.AppointmentDate = input.AppointmentDate
	}
	return changes
}
