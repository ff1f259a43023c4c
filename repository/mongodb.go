package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/BerniceZTT/case_end/models"
	"github.com/BerniceZTT/case_end/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ApiOperationLogsCollection 操作日志集合名
const ApiOperationLogsCollection = "apiOperationLogs"

// OperationLogStore 接口操作日志存储
type OperationLogStore interface {
	Save(ctx context.Context, log *models.OperationLog) error
	Close(ctx context.Context) error
}

// MongoOperationLogStore 把操作日志写入MongoDB
type MongoOperationLogStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoOperationLogStore 初始化MongoDB连接并确保集合存在
func NewMongoOperationLogStore(uri, dbName string) (*MongoOperationLogStore, error) {
	// 设置连接超时
	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	// 检查连接
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(dbName)
	if err := ensureCollection(pingCtx, db, ApiOperationLogsCollection); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	collection := db.Collection(ApiOperationLogsCollection)
	_, err = collection.Indexes().CreateOne(pingCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "operationTime", Value: -1}},
	})
	if err != nil {
		utils.Logger.Warn().Err(err).Msg("failed to create operation log index")
	}

	utils.Logger.Info().Str("database", dbName).Msg("connected to mongodb")
	return &MongoOperationLogStore{client: client, collection: collection}, nil
}

// ensureCollection 集合不存在时创建
func ensureCollection(ctx context.Context, db *mongo.Database, name string) error {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	for _, existing := range names {
		if existing == name {
			return nil
		}
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		return fmt.Errorf("create collection %s: %w", name, err)
	}
	utils.Logger.Info().Str("collection", name).Msg("collection created")
	return nil
}

// Save 保存操作日志
func (s *MongoOperationLogStore) Save(ctx context.Context, log *models.OperationLog) error {
	_, err := s.collection.InsertOne(ctx, log)
	return err
}

// Close 断开MongoDB连接
func (s *MongoOperationLogStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return err
	}
	utils.Logger.Info().Msg("mongodb connection closed")
	return nil
}

// LogOnlyOperationLogStore 未配置MongoDB时只输出到日志
type LogOnlyOperationLogStore struct{}

// Save 输出操作日志摘要
func (LogOnlyOperationLogStore) Save(_ context.Context, log *models.OperationLog) error {
	utils.Logger.Info().
		Str("requestId", log.RequestID).
		Str("method", log.Method).
		Str("path", log.Path).
		Int64("operatorId", log.OperatorID).
		Int("status", log.StatusCode).
		Int64("responseTime", log.ResponseTime).
		Msg("operation log")
	return nil
}

// Close 无需释放资源
func (LogOnlyOperationLogStore) Close(context.Context) error {
	return nil
}
