package routes

import (
	"net/http"

	"github.com/BerniceZTT/case_end/controllers"
	"github.com/BerniceZTT/case_end/middleware"
	"github.com/BerniceZTT/case_end/repository"
	"github.com/BerniceZTT/case_end/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Dependencies 路由依赖的数据库连接与配置
type Dependencies struct {
	DB       *gorm.DB
	PageSize int
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	users := repository.NewUserRepository(deps.DB)
	clients := repository.NewClientRepository(deps.DB)
	services := repository.NewServiceRepository(deps.DB)
	clientLogs := repository.NewClientLogRepository(deps.DB)
	followUps := repository.NewFollowUpRepository(deps.DB, clientLogs)

	auth := service.NewAuthService(users)

	RegisterAuthRoutes(router, controllers.NewAuthController(auth))
	RegisterUserRoutes(router, controllers.NewUserController(auth))
	RegisterClientRoutes(router, controllers.NewClientController(service.NewClientService(clients, clientLogs, deps.PageSize)))
	RegisterFollowUpRoutes(router, controllers.NewFollowUpController(service.NewFollowUpService(followUps, clients, users, services)))
	RegisterServiceRoutes(router, controllers.NewCatalogController(service.NewCatalogService(services)))

	// 健康检查路由
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 数据库状态检查路由, 仅管理员可见
	router.GET("/api/db-status", middleware.AuthMiddleware(), middleware.PermissionMiddleware("system", "read"), func(c *gin.Context) {
		c.JSON(http.StatusOK, repository.GetDatabaseStatus(c.Request.Context(), deps.DB))
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
