package controllers

import (
	"net/http"

	"github.com/BerniceZTT/case_end/models"
	"github.com/BerniceZTT/case_end/service"
	"github.com/BerniceZTT/case_end/utils"
	"github.com/BerniceZTT/case_end/validation"

	"github.com/gin-gonic/gin"
)

// maxPageSize 单页最多返回的客户数
const maxPageSize = 500

// ClientController 客户接口
type ClientController struct {
	clients *service.ClientService
}

// NewClientController 创建客户控制器
func NewClientController(clients *service.ClientService) *ClientController {
	return &ClientController{clients: clients}
}

// GetClients 分页获取客户列表, 支持按姓名, 邮编, 电话检索
func (ctl *ClientController) GetClients(c *gin.Context) {
	search := models.ClientSearch{
		Name:  c.Query("name"),
		Zip:   c.Query("zip"),
		Phone: c.Query("phone"),
	}
	page := utils.ParsePage(c.Query("page"))
	pageSize := queryInt(c, "pageSize")
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	result, err := ctl.clients.List(c.Request.Context(), search, page, pageSize)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.LogInfo(map[string]interface{}{
		"search":     search,
		"page":       result.Pagination.CurrentPage,
		"numClients": result.Pagination.NumClients,
	}, "clients loaded")

	c.JSON(http.StatusOK, result)
}

// GetClient 获取客户详情
func (ctl *ClientController) GetClient(c *gin.Context) {
	params := validation.FromParams(map[string]string{"clientId": c.Param("clientId")})
	if err := utils.NewValidationError(validation.CheckValid(params, validation.ValidID("clientId"))); err != nil {
		utils.HandleError(c, err)
		return
	}

	client, err := ctl.clients.Get(c.Request.Context(), validation.ParseID(params.Get("clientId")))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// CreateClient 录入客户
func (ctl *ClientController) CreateClient(c *gin.Context) {
	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var req models.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, bindingError(err))
		return
	}

	client, err := ctl.clients.Create(c.Request.Context(), user, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// GetClientLogs 获取客户活动日志
func (ctl *ClientController) GetClientLogs(c *gin.Context) {
	params := validation.FromParams(map[string]string{"clientId": c.Param("clientId")})
	if err := utils.NewValidationError(validation.CheckValid(params, validation.ValidID("clientId"))); err != nil {
		utils.HandleError(c, err)
		return
	}

	logs, err := ctl.clients.ListLogs(c.Request.Context(), validation.ParseID(params.Get("clientId")))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
