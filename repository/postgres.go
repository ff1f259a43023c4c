package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BerniceZTT/case_end/models"
	"github.com/BerniceZTT/case_end/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// ErrDuplicate 违反唯一约束
var ErrDuplicate = errors.New("duplicate record")

// slowQueryThreshold 超过该耗时的 SQL 以警告级别记录
const slowQueryThreshold = 500 * time.Millisecond

// InitPostgres 初始化Postgres连接
func InitPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	// 检查连接
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	utils.Logger.Info().Msg("connected to postgres")
	return db, nil
}

// ClosePostgres 关闭Postgres连接
func ClosePostgres(db *gorm.DB) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		utils.Logger.Error().Err(err).Msg("failed to get sql.DB")
		return
	}
	if err := sqlDB.Close(); err != nil {
		utils.Logger.Error().Err(err).Msg("failed to close postgres")
		return
	}
	utils.Logger.Info().Msg("postgres connection closed")
}

// AutoMigrate 创建或更新所有表结构
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Service{},
		&models.FollowUp{},
		&models.FollowUpService{},
		&models.ClientLog{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.Logger.Info().Msg("database schema migrated")
	return nil
}

// statusTables 数据库状态检查中统计的表
var statusTables = map[string]interface{}{
	"users":              &models.User{},
	"clients":            &models.Client{},
	"services":           &models.Service{},
	"follow_ups":         &models.FollowUp{},
	"follow_up_services": &models.FollowUpService{},
	"client_logs":        &models.ClientLog{},
}

// GetDatabaseStatus 获取各表记录数
func GetDatabaseStatus(ctx context.Context, db *gorm.DB) map[string]interface{} {
	result := make(map[string]interface{}, len(statusTables))
	for table, model := range statusTables {
		var count int64
		if err := db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
			utils.Logger.Error().Err(err).Str("table", table).Msg("failed to count table")
			result[table] = map[string]interface{}{"count": 0, "error": err.Error()}
			continue
		}
		result[table] = map[string]interface{}{"count": count}
	}
	return result
}

// conn 传入事务时使用事务, 否则使用默认连接
func conn(db *gorm.DB, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// translateError 统一 gorm 的未找到与唯一约束错误
func translateError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

// gormLogger 把 gorm 的日志输出到 zerolog
type gormLogger struct {
	level gormlogger.LogLevel
}

// NewGormLogger 创建 gorm 日志适配器
func NewGormLogger() gormlogger.Interface {
	return &gormLogger{level: gormlogger.Warn}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		utils.Logger.Info().Msgf(msg, args...)
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		utils.Logger.Warn().Msgf(msg, args...)
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		utils.Logger.Error().Msgf(msg, args...)
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		sql, rows := fc()
		utils.Logger.Error().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("sql error")
	case elapsed > slowQueryThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		utils.Logger.Warn().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("slow sql")
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		utils.LogDbOperation("sql", "", sql, rows)
	}
}
