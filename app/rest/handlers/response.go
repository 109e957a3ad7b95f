package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/cattyman919/contact/app/utils/errors"
	"github.com/cattyman919/contact/app/utils/validator"
)

const (
	statusSuccess = "Success"
	statusError   = "Error"
)

// SuccessResponse is the envelope of every successful response
type SuccessResponse struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
}

// PageResponse is the envelope of a paginated listing.
// Absent cursors are serialized as null.
type PageResponse struct {
	Status     string  `json:"status"`
	StatusCode int     `json:"statusCode"`
	Data       any     `json:"data"`
	NextCursor *string `json:"nextCursor"`
	PrevCursor *string `json:"prevCursor"`
}

// ErrorResponse is the envelope of every failed response
type ErrorResponse struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// MessageResponse carries a human readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

func respond(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, SuccessResponse{
		Status:     statusSuccess,
		StatusCode: statusCode,
		Data:       data,
	})
}

// WriteError writes the error envelope for status and message
func WriteError(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, ErrorResponse{
		Status:     statusError,
		StatusCode: statusCode,
		Message:    message,
	})
}

// requestError converts binding and validation failures into AppErrors
func requestError(err error) error {
	var validationErr *validator.ValidationError
	if errors.As(err, &validationErr) {
		return apperrors.NewValidationError(validationErr.Summary())
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.NewInvalidArgument("Invalid request.", err)
}

// NewHTTPErrorHandler renders every error returned by a handler as the error envelope
func NewHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		statusCode := apperrors.GetHTTPStatusCode(err)
		message := apperrors.PublicMessage(err)

		// router errors such as 404 and 405 come from echo itself
		var httpErr *echo.HTTPError
		if _, ok := apperrors.AsAppError(err); !ok && errors.As(err, &httpErr) {
			statusCode = httpErr.Code
			message = fmt.Sprint(httpErr.Message)
		}

		ctx := c.Request().Context()
		if statusCode >= http.StatusInternalServerError {
			logger.ErrorContext(ctx, "request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", statusCode,
				"error", err)
		} else {
			logger.DebugContext(ctx, "request rejected", "path", c.Path(), "status", statusCode, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(statusCode)
		} else {
			err = WriteError(c, statusCode, message)
		}
		if err != nil {
			logger.ErrorContext(ctx, "failed to write error response", "error", err)
		}
	}
}
