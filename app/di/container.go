package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/cattyman919/contact/app/config"
	"github.com/cattyman919/contact/app/driver/postgres"
	"github.com/cattyman919/contact/app/gateway"
	"github.com/cattyman919/contact/app/port"
	"github.com/cattyman919/contact/app/rest"
	custommw "github.com/cattyman919/contact/app/rest/middleware"
	"github.com/cattyman919/contact/app/usecase"
)

// Container holds all dependencies for the application
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Drivers
	DB *postgres.DB

	// Gateways
	ContactGateway port.ContactGateway

	// Usecases
	ContactUsecase   port.ContactUsecase
	ContactPaginator port.ContactPaginator

	RateLimiter *custommw.RateLimiter
}

// NewContainer connects to the database and wires every layer.
// ctx bounds the background work started here, such as limiter cleanup.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	db, err := postgres.NewConnection(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	container := NewContainerWithDB(ctx, cfg, logger, db)
	logger.InfoContext(ctx, "container initialized")
	return container, nil
}

// NewContainerWithDB wires every layer on top of an existing database handle
func NewContainerWithDB(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *postgres.DB) *Container {
	container := &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
	}

	contactRepository := postgres.NewContactRepository(db.Pool(), logger)
	container.ContactGateway = gateway.NewContactGateway(contactRepository, logger)

	container.ContactUsecase = usecase.NewContactUsecase(container.ContactGateway, logger)
	container.ContactPaginator = usecase.NewCursorPaginator(container.ContactGateway, logger)

	container.RateLimiter = custommw.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)

	return container
}

// CreateRouter creates and returns a fully configured Echo router
func (c *Container) CreateRouter() *echo.Echo {
	return rest.NewRouter(rest.RouterConfig{
		Logger:           c.Logger,
		ContactUsecase:   c.ContactUsecase,
		ContactPaginator: c.ContactPaginator,
		Database:         c.DB,
		RateLimiter:      c.RateLimiter,
		CORSAllowOrigins: c.Config.CORSAllowOrigins,
		DefaultLimit:     c.Config.PaginationDefaultLimit,
		MaxLimit:         c.Config.PaginationMaxLimit,
		EnableDebug:      c.Config.LogLevel == "debug",
		EnableMetrics:    c.Config.EnableMetrics,
		EnableTracing:    c.Config.OTelEnabled,
		ServiceName:      c.Config.OTelServiceName,
	})
}

// Close closes all resources
func (c *Container) Close() {
	if c.DB != nil {
		c.DB.Close()
	}
	c.Logger.Info("container closed")
}
