package controllers

import (
	"net/http"

	"github.com/BerniceZTT/case_end/models"
	"github.com/BerniceZTT/case_end/service"
	"github.com/BerniceZTT/case_end/utils"
	"github.com/BerniceZTT/case_end/validation"

	"github.com/gin-gonic/gin"
)

// CatalogController 项目与服务目录接口
type CatalogController struct {
	catalog *service.CatalogService
}

// NewCatalogController 创建服务目录控制器
func NewCatalogController(catalog *service.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// GetServices 获取服务列表, all=true 时包含已停用的服务
func (ctl *CatalogController) GetServices(c *gin.Context) {
	services, err := ctl.catalog.List(c.Request.Context(), c.Query("all") == "true")
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// CreateService 新建服务
func (ctl *CatalogController) CreateService(c *gin.Context) {
	var req models.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, bindingError(err))
		return
	}

	created, err := ctl.catalog.Create(c.Request.Context(), req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateService 更新服务
func (ctl *CatalogController) UpdateService(c *gin.Context) {
	params := validation.FromParams(map[string]string{"serviceId": c.Param("serviceId")})
	if err := utils.NewValidationError(validation.CheckValid(params, validation.ValidID("serviceId"))); err != nil {
		utils.HandleError(c, err)
		return
	}

	var req models.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, bindingError(err))
		return
	}

	updated, err := ctl.catalog.Update(c.Request.Context(), validation.ParseID(params.Get("serviceId")), req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
