package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"tracking/internal/core/domain/model/shipment"
	"tracking/internal/ingestion"
	"tracking/internal/pkg/errs"
	"tracking/internal/pkg/retry"

	"github.com/labstack/echo/v4"
)

const internalErrorMessage = "Internal error occurred"

func newErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Code: code, Message: message, Timestamp: time.Now().UTC()}
}

// statusOf maps a use case error to its HTTP status and error body.
func statusOf(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, newErrorResponse(CodeNotFound, err.Error())
	case errors.Is(err, shipment.ErrInvalidTransition),
		errors.Is(err, shipment.ErrCannotCancel),
		errors.Is(err, shipment.ErrEventPredatesPackage),
		errs.IsValidation(err):
		return http.StatusBadRequest, newErrorResponse(CodeBadRequest, err.Error())
	case errors.Is(err, ingestion.ErrQueueFull), errors.Is(err, ingestion.ErrStopped):
		return http.StatusServiceUnavailable, newErrorResponse(CodeServiceUnavailable, err.Error())
	default:
		return http.StatusInternalServerError, newErrorResponse(CodeInternalError, internalErrorMessage)
	}
}

// fail writes the error body for err and logs the failures that are not the client's fault.
func (s *Server) fail(ctx echo.Context, operation, packageID string, err error) error {
	status, body := statusOf(err)

	var exhausted *retry.ExhaustedError
	switch {
	case errors.As(err, &exhausted):
		s.logger.ErrorContext(ctx.Request().Context(), "operation gave up after retries",
			"operation", operation,
			"package_id", packageID,
			"attempts", exhausted.Attempts,
			"error", exhausted.Err,
		)
	case status >= http.StatusInternalServerError:
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"operation", operation,
			"package_id", packageID,
			"error", err,
		)
	}

	return ctx.JSON(status, body)
}

func (s *Server) badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, newErrorResponse(CodeBadRequest, message))
}

// HTTPErrorHandler renders errors that escape handlers, such as failed
// parameter binding, OpenAPI validation or unknown routes, as ErrorResponse.
func HTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := newErrorResponse(CodeInternalError, internalErrorMessage)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			body.Message = http.StatusText(he.Code)
			if msg, ok := he.Message.(string); ok && msg != "" {
				body.Message = msg
			}
			switch {
			case status == http.StatusNotFound:
				body.Code = CodeNotFound
			case status == http.StatusServiceUnavailable:
				body.Code = CodeServiceUnavailable
			case status < http.StatusInternalServerError:
				body.Code = CodeBadRequest
			default:
				body.Message = internalErrorMessage
			}
		} else {
			status, body = statusOf(err)
		}

		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "unhandled error",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "failed to write error response", "error", err)
		}
	}
}
