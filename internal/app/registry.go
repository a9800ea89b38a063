package app

import (
	"context"
	"database/sql"

	"go-payroll/internal/company"
	"go-payroll/internal/config"
	"go-payroll/internal/employee"
	"go-payroll/internal/identity"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/middleware"
	"go-payroll/internal/payroll"
	"go-payroll/internal/rbac"
	"go-payroll/internal/rbac/infra"
	"go-payroll/internal/realtime"
	"go-payroll/internal/shared/audit"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/transaction"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	ctx context.Context,
	cfg *config.Config,
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()
	auditLogger := audit.NewStdoutLogger()

	// --- Repositories ---
	identityRepo := identity.NewRepository(gormDB)
	companyRepo := company.NewCachedRepository(company.NewRepository(gormDB), rdb)
	employeeRepo := employee.NewRepository(gormDB)
	transactionRepo := transaction.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)

	// --- Realtime ---
	hub := realtime.NewHub()
	broker := realtime.NewRedisBroker(rdb)
	go realtime.NewRelay(rdb, hub).Run(ctx)

	// --- Services ---
	identityProvider := identity.NewService(identityRepo, identity.TokenConfig{
		Secret:     cfg.JWT.Secret,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	})
	companyService := company.NewService(companyRepo, identityProvider, auditLogger)
	employeeService := employee.NewService(employee.Dependencies{
		DB:        db,
		Repo:      employeeRepo,
		Counter:   counterRepo,
		Outbox:    outboxRepo,
		Identity:  identityProvider,
		Publisher: broker,
		Redis:     rdb,
		Audit:     auditLogger,
	})
	transactionService := transaction.NewService(transactionRepo, employeeRepo, broker)

	var narrator payroll.Narrator
	if cfg.Narrator.URL != "" {
		narrator = payroll.NewHTTPNarrator(payroll.HTTPNarratorConfig{
			URL:     cfg.Narrator.URL,
			APIKey:  cfg.Narrator.APIKey,
			Model:   cfg.Narrator.Model,
			Timeout: cfg.Narrator.Timeout,
		})
	}
	payrollService := payroll.NewService(payroll.Dependencies{
		Employees:    employeeRepo,
		Companies:    companyRepo,
		Transactions: transactionRepo,
		Narrator:     narrator,
		Audit:        auditLogger,
		PDFWrapWidth: cfg.Payslip.PDFWrapWidth,
	})

	// --- Handlers ---
	identityHandler := identity.NewHandler(identityProvider, cfg.IsProduction())
	companyHandler := company.NewHandler(companyService)
	employeeHandler := employee.NewHandler(employeeService, rdb)
	transactionHandler := transaction.NewHandler(transactionService)
	payrollHandler := payroll.NewHandler(payrollService)
	realtimeHandler := realtime.NewHandler(hub)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	api := router.Group("/api/v1")
	{
		identity.RegisterRoutes(api, identityHandler, identityProvider)
		company.RegisterRoutes(api, companyHandler, rbacService, identityProvider)
		employee.RegisterRoutes(api, employeeHandler, rbacService, identityProvider, rdb, logger)
		transaction.RegisterRoutes(api, transactionHandler, rbacService, identityProvider, logger)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, identityProvider, logger)
		realtime.RegisterRoutes(api, realtimeHandler, rbacService, identityProvider)
		rbac.RegisterRoutes(api, rbacHandler, identityProvider)
	}

	return nil
}
