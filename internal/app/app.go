package app

import (
	"context"
	"database/sql"

	"go-payroll/internal/company"
	"go-payroll/internal/config"
	"go-payroll/internal/employee"
	"go-payroll/internal/identity"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/shared/connection"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/transaction"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp connects the infrastructure, migrates the schema and registers
// every module on router. The returned func releases what BuildApp opened.
func BuildApp(cfg *config.Config, router *gin.Engine) (func(), error) {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database.DSN(), cfg.Database.MaxRetries)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	if err := Migrate(gormDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Database.MaxRetries)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	ctx, cancel := context.WithCancel(context.Background())
	if err := registerModules(ctx, cfg, router, sqlDB, gormDB, rdb); err != nil {
		cancel()
		rdb.Close()
		sqlDB.Close()
		return nil, err
	}

	return func() {
		cancel()
		closeAll(logger, rdb, sqlDB)
	}, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&identity.User{},
		&company.Company{},
		&employee.Employee{},
		&transaction.Transaction{},
		&counter.CompanyCounter{},
		&kafka.OutboxRecord{},
	)
}

func closeAll(logger *zap.Logger, rdb *redis.Client, db *sql.DB) {
	if err := rdb.Close(); err != nil {
		logger.Warn("close redis failed", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		logger.Warn("close database failed", zap.Error(err))
	}
}
