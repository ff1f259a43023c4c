package routes

import (
	"github.com/BerniceZTT/case_end/controllers"
	"github.com/BerniceZTT/case_end/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 注册用户管理路由
func RegisterUserRoutes(router *gin.Engine, ctl *controllers.UserController) {
	users := router.Group("/api/users")
	users.Use(middleware.AuthMiddleware())

	// 获取所有用户 (仅管理员)
	users.GET("", middleware.PermissionMiddleware("users", "read"), ctl.GetAllUsers)

	// 创建用户 (仅管理员)
	users.POST("", middleware.PermissionMiddleware("users", "create"), ctl.CreateUser)
}
