package routes

import (
	"github.com/BerniceZTT/case_end/controllers"
	"github.com/BerniceZTT/case_end/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterServiceRoutes 注册项目与服务目录路由
func RegisterServiceRoutes(router *gin.Engine, ctl *controllers.CatalogController) {
	serviceGroup := router.Group("/api/services")
	serviceGroup.Use(middleware.AuthMiddleware())

	serviceGroup.GET("", middleware.PermissionMiddleware("services", "read"), ctl.GetServices)

	// 以下操作仅管理员
	serviceGroup.POST("", middleware.PermissionMiddleware("services", "create"), ctl.CreateService)
	serviceGroup.PATCH("/:serviceId", middleware.PermissionMiddleware("services", "update"), ctl.UpdateService)
}
