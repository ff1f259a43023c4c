package controllers

import (
	"github.com/BerniceZTT/case_end/models"
	"github.com/BerniceZTT/case_end/service"
	"github.com/BerniceZTT/case_end/utils"

	"github.com/gin-gonic/gin"
)

// AuthController 登录与 token 校验接口
type AuthController struct {
	auth *service.AuthService
}

// NewAuthController 创建认证控制器
func NewAuthController(auth *service.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Login 用户登录
func (ctl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, bindingError(err))
		return
	}

	utils.Logger.Info().Str("email", req.Email).Msg("login attempt")

	resp, err := ctl.auth.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, resp, "login succeeded")
}

// ValidateToken 校验 token 并返回当前用户
func (ctl *AuthController) ValidateToken(c *gin.Context) {
	user, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	account, err := ctl.auth.CurrentUser(c.Request.Context(), user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"user": account}, "")
}
