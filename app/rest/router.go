package rest

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/cattyman919/contact/app/port"
	"github.com/cattyman919/contact/app/rest/handlers"
	custommw "github.com/cattyman919/contact/app/rest/middleware"
	"github.com/cattyman919/contact/app/utils/validator"
)

// RouterConfig holds router configuration
type RouterConfig struct {
	Logger           *slog.Logger
	ContactUsecase   port.ContactUsecase
	ContactPaginator port.ContactPaginator
	Database         port.HealthChecker
	RateLimiter      *custommw.RateLimiter
	CORSAllowOrigins []string
	DefaultLimit     int
	MaxLimit         int
	EnableDebug      bool
	EnableMetrics    bool
	EnableTracing    bool
	ServiceName      string
}

// NewRouter creates and configures the Echo router
func NewRouter(config RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = config.EnableDebug
	e.Validator = validator.New()
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(config.Logger)

	contactHandler := handlers.NewContactHandler(
		config.ContactUsecase,
		config.ContactPaginator,
		config.DefaultLimit,
		config.MaxLimit,
		config.Logger,
	)
	healthHandler := handlers.NewHealthHandler(config.Database, handlers.DefaultHeapLimit, config.Logger)

	if config.EnableTracing {
		e.Use(otelecho.Middleware(config.ServiceName))
		e.Use(custommw.OTelStatusMiddleware())
	}

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/api/v1/health" || path == "/metrics"
		},
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				config.Logger.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"request_id", v.RequestID)
			} else {
				config.Logger.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"request_id", v.RequestID,
					"error", v.Error.Error())
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(custommw.CORS(config.CORSAllowOrigins))
	e.Use(custommw.SecurityHeaders())
	if config.EnableMetrics {
		e.Use(custommw.Metrics())
	}
	if config.RateLimiter != nil {
		e.Use(config.RateLimiter.RateLimit())
	}

	v1 := e.Group("/api/v1")
	v1.GET("/health", healthHandler.HealthCheck)

	contacts := v1.Group("/contacts")
	contacts.GET("", contactHandler.List)
	contacts.GET("/all", contactHandler.ListAll)
	contacts.GET("/dev/all", contactHandler.ListAllDev)
	contacts.GET("/count", contactHandler.Count)
	contacts.POST("", contactHandler.Create)
	contacts.POST("/bulk", contactHandler.CreateBulk)
	contacts.GET("/:id", contactHandler.Get)
	contacts.PATCH("/:id", contactHandler.Update)
	contacts.DELETE("/:id", contactHandler.Remove)

	if config.EnableMetrics {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	return e
}
