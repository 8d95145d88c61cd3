package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/lavanda/laundry-dashboard/docs"
	"github.com/lavanda/laundry-dashboard/internal/api/handler"
	"github.com/lavanda/laundry-dashboard/internal/api/middleware"
	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/guard"
	"github.com/lavanda/laundry-dashboard/internal/core/service"
	"github.com/lavanda/laundry-dashboard/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Workspaces *service.WorkspaceFactory
	Cookies    *middleware.SessionCodec
	Readiness  map[string]handlers.Pinger
	Log        zerolog.Logger
	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// prometheus default registry.
	Registry *prometheus.Registry
}

// Screen access per role.
var (
	superAdminOnly = []domain.Role{domain.RoleSuperAdmin}
	multiAdminOnly = []domain.Role{domain.RoleMultiAdmin}
	adminScreens   = []domain.Role{domain.RoleSingleAdmin, domain.RoleMultiAdmin}
	orderScreens   = []domain.Role{domain.RoleSingleAdmin, domain.RoleMultiAdmin, domain.RoleOperator}
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "laundry",
		Registerer: registerer,
	}))

	// --- Observability (no session) ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Public client lookup (no session) ---
	lookupHandler := handler.NewLookupHandler(d.Workspaces.Anonymous(), d.Log)
	e.GET("/lookup/:laundryId/:phone", lookupHandler.Lookup)

	// --- Everything below resolves the caller's workspace ---
	s := e.Group("", middleware.Session(d.Cookies, d.Workspaces, d.Log))

	authHandler := handler.NewAuthHandler(d.Cookies, d.Log)
	s.POST("/auth/login", authHandler.Login)
	s.POST("/auth/logout", authHandler.Logout)
	s.GET("/api/session", authHandler.Session)

	// --- Screens ---
	screens := handler.NewScreenHandler()
	s.GET(guard.LoginPath, screens.Login, middleware.Public(guard.DefaultPublicRoute))
	s.GET(guard.SuperAdminHome, screens.SuperAdmin, middleware.Protected(superAdminOnly...))
	s.GET(guard.MultiAdminHome, screens.MultiAdmin, middleware.Protected(multiAdminOnly...))
	s.GET(guard.SingleAdminHome, screens.AdminDashboard, middleware.Protected(adminScreens...))
	s.GET(guard.OperatorHome, screens.AdminOrders, middleware.Protected(orderScreens...))

	// --- Data API (any authenticated role) ---
	apiGroup := s.Group("/api", middleware.Protected())
	orders := handler.NewOrderHandler()
	apiGroup.GET("/orders", orders.List)
	apiGroup.POST("/orders", orders.Create)
	apiGroup.PUT("/orders/:id/status", orders.UpdateStatus)
	apiGroup.PUT("/orders/:id/payment", orders.UpdatePayment)
	apiGroup.GET("/services", orders.Services)
	apiGroup.GET("/clients/:phone", orders.LookupClient)

	reports := handler.NewReportHandler()
	apiGroup.GET("/reports/dashboard", reports.Dashboard)
	apiGroup.GET("/reports/:kind", reports.Report)

	return e
}

// requestLogger logs one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
