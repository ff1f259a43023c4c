package routes

import (
	"github.com/BerniceZTT/case_end/controllers"
	"github.com/BerniceZTT/case_end/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterFollowUpRoutes 注册客户跟进记录相关路由
func RegisterFollowUpRoutes(router *gin.Engine, ctl *controllers.FollowUpController) {
	followUpGroup := router.Group("/api/clients/:clientId/follow-ups")
	followUpGroup.Use(middleware.AuthMiddleware())

	// 获取某个客户的跟进记录列表
	followUpGroup.GET("", middleware.PermissionMiddleware("follow-ups", "read"), ctl.GetClientFollowUps)

	// 获取单条跟进记录
	followUpGroup.GET("/:followUpId", middleware.PermissionMiddleware("follow-ups", "read"), ctl.GetFollowUp)

	// 创建跟进记录
	followUpGroup.POST("", middleware.PermissionMiddleware("follow-ups", "create"), ctl.CreateFollowUp)

	// 更新跟进记录
	followUpGroup.PATCH("/:followUpId", middleware.PermissionMiddleware("follow-ups", "update"), ctl.UpdateFollowUp)
}
