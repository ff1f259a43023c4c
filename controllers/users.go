package controllers

import (
	"net/http"

	"github.com/BerniceZTT/case_end/models"
	"github.com/BerniceZTT/case_end/service"
	"github.com/BerniceZTT/case_end/utils"

	"github.com/gin-gonic/gin"
)

// UserController 用户管理接口
type UserController struct {
	auth *service.AuthService
}

// NewUserController 创建用户管理控制器
func NewUserController(auth *service.AuthService) *UserController {
	return &UserController{auth: auth}
}

// GetAllUsers 获取所有用户
func (ctl *UserController) GetAllUsers(c *gin.Context) {
	users, err := ctl.auth.ListUsers(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// CreateUser 创建用户
func (ctl *UserController) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, bindingError(err))
		return
	}

	user, err := ctl.auth.CreateUser(c.Request.Context(), req.FirstName, req.LastName, req.Email, req.Password, req.Role)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}
