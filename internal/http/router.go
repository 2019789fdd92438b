package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/raja1702/computer-storage-solutions/internal/analytics/reports"
	httpH "github.com/raja1702/computer-storage-solutions/internal/http/handlers"
	httpMW "github.com/raja1702/computer-storage-solutions/internal/http/middleware"
	"github.com/raja1702/computer-storage-solutions/internal/observability"
	"github.com/raja1702/computer-storage-solutions/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	// Metrics, when set, instruments every route and serves GET /metrics.
	Metrics *observability.Metrics

	AuthMiddleware    *httpMW.AuthMiddleware
	RateLimiter       *httpMW.RateLimiter
	StatisticsHandler *httpH.StatisticsHandler
	HealthHandler     *httpH.HealthHandler
}

// statisticsRoute is one per-report path of the admin dashboard. Legacy is
// the PascalCase path the dashboard clients were built against; it is served
// under /api/Statistics next to the kebab-case path under /api/statistics.
type statisticsRoute struct {
	Report reports.Name
	Legacy string
}

var statisticsRoutes = []statisticsRoute{
	{reports.TotalSalesMonthWise, "TotalSalesMonthWise"},
	{reports.TotalOrdersByCustomerMonthWise, "TotalOrdersByCustomerMonthWise"},
	{reports.OrdersByCustomerInMonth, "OrdersByCustomerInMonth"},
	{reports.CustomersWithNoRecentOrders, "CustomersWithNoOrdersInLast3Months"},
	{reports.UnitsSoldInPriceRange, "UnitsSoldInPriceRange"},
	{reports.MostPopularProduct, "MostPopularProduct"},
	{reports.LeastPopularProduct, "LeastPopularProduct"},
	{reports.CustomerProductsInQuarter, "CustomerProductsInQuarter"},
	{reports.OrderAndCustomerForTopSeller, "OrderAndCustomerForHighestSellingProduct"},
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	stats := api.Group("/statistics")
	legacy := api.Group("/Statistics")
	for _, g := range []*gin.RouterGroup{stats, legacy} {
		if cfg.AuthMiddleware != nil {
			g.Use(cfg.AuthMiddleware.RequireAdmin())
		}
		if cfg.RateLimiter != nil {
			g.Use(cfg.RateLimiter.Handler())
		}
	}
	if cfg.StatisticsHandler != nil {
		stats.GET("/reports", cfg.StatisticsHandler.ListReports)
		stats.GET("/reports/:name", cfg.StatisticsHandler.RunReport)
		stats.POST("/batch", cfg.StatisticsHandler.Batch)
		for _, rt := range statisticsRoutes {
			h := cfg.StatisticsHandler.Report(rt.Report)
			stats.GET("/"+string(rt.Report), h)
			legacy.GET("/"+rt.Legacy, h)
		}
	}

	return r
}
