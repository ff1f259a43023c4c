package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BerniceZTT/case_end/config"
	"github.com/BerniceZTT/case_end/middleware"
	"github.com/BerniceZTT/case_end/repository"
	"github.com/BerniceZTT/case_end/routes"
	"github.com/BerniceZTT/case_end/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// rootCmd 不带子命令时启动 HTTP 服务
var rootCmd = &cobra.Command{
	Use:   "case_end",
	Short: "Case management backend for client intake and follow-up tracking",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// 日志级别取决于 GIN_MODE, 需先载入 .env
		config.LoadEnv()
		utils.InitLogger()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func main() {
	rootCmd.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newCreateUserCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	// 加载配置
	cfg := config.LoadConfig()
	utils.SetJWTSecret(cfg.JWTKey)

	// 设置Gin模式
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化数据库
	db, err := repository.InitPostgres(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer repository.ClosePostgres(db)

	if cfg.AutoMigrate {
		if err := repository.AutoMigrate(db); err != nil {
			return err
		}
	}

	// 操作日志: 配置了MongoDB时写入集合, 否则只输出到日志
	var operationLogs repository.OperationLogStore = repository.LogOnlyOperationLogStore{}
	if cfg.MongoURI != "" {
		store, err := repository.NewMongoOperationLogStore(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			utils.Logger.Error().Err(err).Msg("mongodb unavailable, operation logs go to stdout only")
		} else {
			operationLogs = store
		}
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := operationLogs.Close(ctx); err != nil {
			utils.Logger.Error().Err(err).Msg("failed to close operation log store")
		}
	}()

	// 创建Gin实例
	router := gin.New()

	// 应用中间件
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.OperationLoggerMiddleware(operationLogs))

	// 注册路由
	routes.RegisterRoutes(router, routes.Dependencies{DB: db, PageSize: cfg.PageSize})

	// 设置HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 启动服务器
	serverErr := make(chan error, 1)
	go func() {
		utils.Logger.Info().Msgf("server listening on port %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("start server: %w", err)
	case <-quit:
	}
	utils.Logger.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	utils.Logger.Info().Msg("server exited")
	return nil
}
