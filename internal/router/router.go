package router

import (
	"time"

	"wfgpos/internal/access"
	"wfgpos/internal/config"
	"wfgpos/internal/handler"
	"wfgpos/internal/middleware"
	"wfgpos/internal/repository"
	"wfgpos/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services is the service layer behind the HTTP routes.
type Services struct {
	Register service.RegisterService
	Orders   service.OrderService
	Expenses service.ExpenseService
	Reports  service.ReportService
}

// NewServices wires repositories into services.
// Dependency graph: Service ← Repository ← DB; notifier receives day summaries.
func NewServices(cfg *config.Config, db *gorm.DB, notifier service.Notifier, loc *time.Location) Services {
	sessionRepo := repository.NewRegisterRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	reportRepo := repository.NewReportRepository(db)

	return Services{
		Register: service.NewRegisterService(sessionRepo, orderRepo, expenseRepo, employeeRepo, businessRepo, notifier),
		Orders:   service.NewOrderService(sessionRepo, orderRepo, expenseRepo, employeeRepo, cfg.OverpaymentPolicy),
		Expenses: service.NewExpenseService(sessionRepo, orderRepo, expenseRepo),
		Reports:  service.NewReportService(reportRepo, sessionRepo, orderRepo, expenseRepo, employeeRepo, loc),
	}
}

// New returns a configured Gin engine serving svcs.
// db and rdb are only used by /health.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, svcs Services, loc *time.Location) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter("global", 1000, time.Minute)) // 1000 req/min per IP

	// ── Handlers ─────────────────────────────────────────────────────────────
	registerH := handler.NewRegisterHandler(svcs.Register)
	ordersH := handler.NewOrderHandler(svcs.Orders)
	expensesH := handler.NewExpenseHandler(svcs.Expenses)
	reportsH := handler.NewReportHandler(svcs.Reports, loc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	if db != nil && rdb != nil {
		r.GET("/health", handler.Health(db, rdb))
	}

	// Protected routes
	v1 := r.Group("/v1",
		middleware.JWTAuth(cfg.JWTSecret),
		middleware.RateLimiter("account", 300, time.Minute),
	)
	genReport := middleware.RequireCapability(access.CanGenReport)
	{
		reg := v1.Group("/register")
		{
			reg.GET("/managers", registerH.ListManagers)
			reg.GET("/status", registerH.Status)
			reg.POST("/open", registerH.Open)
			reg.POST("/close", registerH.Close)
			reg.POST("/activity", registerH.Touch)

			reg.GET("/sessions", genReport, registerH.ListSessions)
			reg.GET("/sessions/:key", genReport, registerH.GetSession)
			reg.GET("/sessions/:key/summary", genReport, registerH.DaySummary)
			reg.GET("/sessions/:key/summary.pdf", genReport, registerH.DaySummaryPDF)
			reg.GET("/summary", middleware.RequireCapability(access.IsManager), registerH.Summary)
		}

		orders := v1.Group("/orders")
		{
			orders.POST("", ordersH.Create)
			orders.GET("", middleware.RequireCapability(access.CanViewOrders), ordersH.List)
			orders.GET("/servers", ordersH.ServerBreakdown)
			orders.GET("/daily-count", ordersH.DailyCount)
			orders.GET("/session/:key", ordersH.ListBySession)
			orders.GET("/session/:key/stats", ordersH.SessionStats)
			orders.GET("/:id", ordersH.Get)
			orders.PATCH("/:id/payment", ordersH.ApplyPayment)
			orders.DELETE("/:id", middleware.RequireCapability(access.CanDeleteOrders), ordersH.Delete)
		}

		v1.GET("/expenses/session/:key", expensesH.ListBySession)
		expenses := v1.Group("/expenses", middleware.RequireCapability(access.CanAddExpenses))
		{
			expenses.POST("", expensesH.Add)
			expenses.PUT("/:id", expensesH.Edit)
			expenses.DELETE("/:id", expensesH.Delete)
		}

		reports := v1.Group("/reports", genReport)
		{
			reports.POST("", reportsH.Generate)
			reports.GET("", reportsH.List)
			reports.GET("/period/:period", reportsH.Period)
			reports.GET("/:id", reportsH.Get)
		}

		stats := v1.Group("/stats/employees", genReport)
		{
			stats.GET("/top", reportsH.TopEmployees)
			stats.GET("/:id", reportsH.EmployeeStat)
		}
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
