package routes

import (
	"github.com/BerniceZTT/case_end/controllers"
	"github.com/BerniceZTT/case_end/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册认证相关路由
func RegisterAuthRoutes(router *gin.Engine, ctl *controllers.AuthController) {
	authGroup := router.Group("/api/auth")

	authGroup.POST("/login", ctl.Login)
	authGroup.GET("/validate", middleware.AuthMiddleware(), ctl.ValidateToken)
}
