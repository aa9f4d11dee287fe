package app

import (
	"context"
	"database/sql"
	"os"

	"go-foresthr/internal/employee"
	"go-foresthr/internal/identity"
	"go-foresthr/internal/leave"
	"go-foresthr/internal/leavetype"
	"go-foresthr/internal/messaging/kafka"
	"go-foresthr/internal/middleware"
	"go-foresthr/internal/rbac"
	"go-foresthr/internal/rbac/infra"
	"go-foresthr/internal/shared/clock"
	"go-foresthr/internal/shared/locker"
	"go-foresthr/internal/sickleave"
	"go-foresthr/internal/tracking"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	clk := clock.System()
	locks := locker.New()

	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	sickLeaveRepo := sickleave.NewRepository(gormDB)
	trackingRepo := tracking.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)

	// --- Services ---
	leaveTypeService := leavetype.NewService(leaveTypeRepo)
	trackingService := tracking.NewService(trackingRepo)
	employeeService := employee.NewService(db, employeeRepo, outboxRepo, rdb, locks, clk)
	sickLeaveService := sickleave.NewService(db, sickLeaveRepo, trackingRepo, employeeService, outboxRepo, locks, clk)
	leaveService := leave.NewService(db, leaveRepo, leaveTypeRepo, trackingRepo, employeeService, sickLeaveService, outboxRepo, locks, clk)

	if err := leaveTypeService.Seed(context.Background()); err != nil {
		return err
	}

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandler(leaveService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	sickLeaveHandler := sickleave.NewHandler(sickLeaveService)
	trackingHandler := tracking.NewHandler(trackingService)

	// --- Middleware chain ---
	authMW := middleware.AuthMiddleware(identity.PolicyFromEnv())

	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(middleware.RateLimitByIP(rate.Limit(50), 100))
	if rdb != nil && os.Getenv("IDEMPOTENCY_DISABLED") == "" {
		router.Use(middleware.Idempotency(rdb))
	}

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService, authMW)
		leave.RegisterRoutes(api, leaveHandler, rbacService, authMW)
		leavetype.RegisterRoutes(api, leaveTypeHandler, rbacService, authMW)
		sickleave.RegisterRoutes(api, sickLeaveHandler, rbacService, authMW)
		tracking.RegisterRoutes(api, trackingHandler, rbacService, authMW)
	}

	return nil
}
