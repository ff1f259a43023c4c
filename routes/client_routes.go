package routes

import (
	"github.com/BerniceZTT/case_end/controllers"
	"github.com/BerniceZTT/case_end/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterClientRoutes 注册客户相关路由
func RegisterClientRoutes(router *gin.Engine, ctl *controllers.ClientController) {
	clientGroup := router.Group("/api/clients")
	clientGroup.Use(middleware.AuthMiddleware())

	// 客户列表, 支持分页和检索
	clientGroup.GET("", middleware.PermissionMiddleware("clients", "read"), ctl.GetClients)

	// 客户详情
	clientGroup.GET("/:clientId", middleware.PermissionMiddleware("clients", "read"), ctl.GetClient)

	// 客户活动日志
	clientGroup.GET("/:clientId/logs", middleware.PermissionMiddleware("clients", "read"), ctl.GetClientLogs)

	// 录入客户
	clientGroup.POST("", middleware.PermissionMiddleware("clients", "create"), ctl.CreateClient)
}
