package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cattyman919/contact/app/port"
)

const (
	healthUp   = "up"
	healthDown = "down"

	// DefaultHeapLimit is the heap size above which the service reports memory as down
	DefaultHeapLimit uint64 = 150 * 1024 * 1024

	databaseCheckTimeout = 3 * time.Second
)

// HealthResponse reports the status of each dependency
type HealthResponse struct {
	Database string `json:"database"`
	Memory   string `json:"memory"`
}

func (r HealthResponse) healthy() bool {
	return r.Database == healthUp && r.Memory == healthUp
}

// HealthHandler handles health check HTTP requests
type HealthHandler struct {
	database  port.HealthChecker
	heapLimit uint64
	heapInUse func() uint64
	logger    *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(database port.HealthChecker, heapLimit uint64, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		database:  database,
		heapLimit: heapLimit,
		heapInUse: readHeapAlloc,
		logger:    logger.With("component", "health_handler"),
	}
}

// HealthCheck reports database reachability and heap usage
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 503 {object} SuccessResponse
// @Router /api/v1/health [get]
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), databaseCheckTimeout)
	defer cancel()

	response := HealthResponse{Database: healthUp, Memory: healthUp}

	if err := h.database.HealthCheck(ctx); err != nil {
		h.logger.WarnContext(ctx, "database health check failed", "error", err)
		response.Database = healthDown
	}

	if heap := h.heapInUse(); heap > h.heapLimit {
		h.logger.WarnContext(ctx, "heap above limit", "heap_bytes", heap, "limit_bytes", h.heapLimit)
		response.Memory = healthDown
	}

	if !response.healthy() {
		return c.JSON(http.StatusServiceUnavailable, SuccessResponse{
			Status:     statusError,
			StatusCode: http.StatusServiceUnavailable,
			Data:       response,
		})
	}
	return respond(c, http.StatusOK, response)
}

func readHeapAlloc() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.HeapAlloc
}
