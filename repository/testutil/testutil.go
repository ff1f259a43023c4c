// Package testutil 提供基于内存 SQLite 的测试数据库与数据准备函数.
package testutil

import (
	"fmt"
	"testing"

	"github.com/BerniceZTT/case_end/models"
	"github.com/BerniceZTT/case_end/repository"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB 每个测试独立的内存数据库, 已完成建表
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("get sql.DB: %v", err)
	}
	// 单连接, 内存库在连接关闭前一直有效
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := repository.AutoMigrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedUser 写入一个用户
func SeedUser(tb testing.TB, db *gorm.DB, firstName, lastName string, role models.UserRole) *models.User {
	tb.Helper()
	u := &models.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     uuid.NewString() + "@example.org",
		Password:  "pw",
		Role:      role,
	}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedClient 写入一个客户
func SeedClient(tb testing.TB, db *gorm.DB, createdBy int64, firstName, lastName, zip, phone string) *models.Client {
	tb.Helper()
	c := &models.Client{
		FirstName:   firstName,
		LastName:    lastName,
		Zip:         zip,
		Phone:       phone,
		CreatedByID: createdBy,
	}
	if err := db.Omit("Creator").Create(c).Error; err != nil {
		tb.Fatalf("seed client: %v", err)
	}
	return c
}

// SeedService 写入一个服务
func SeedService(tb testing.TB, db *gorm.DB, name string) *models.Service {
	tb.Helper()
	s := &models.Service{Name: name, IsActive: true}
	if err := db.Create(s).Error; err != nil {
		tb.Fatalf("seed service: %v", err)
	}
	return s
}

// ServiceIDsOf 直接从关联表读取某条跟进记录的服务 id
func ServiceIDsOf(tb testing.TB, db *gorm.DB, followUpID int64) []int64 {
	tb.Helper()
	var ids []int64
	if err := db.Model(&models.FollowUpService{}).
		Where("follow_up_id = ?", followUpID).
		Order("service_id ASC").
		Pluck("service_id", &ids).Error; err != nil {
		tb.Fatalf("read follow-up services: %v", err)
	}
	return ids
}
