package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dispatch/internal/pkg/errs"
)

// NewErrorHandler renders use case errors:
//
//	BatchIsInvalid                         400, validation_error envelope
//	ObjectNotFound                         404
//	ValueIsInvalid/Required/OutOfRange     400
//	ObjectAlreadyExists                    400
//	anything else                          500, message hidden
func NewErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var writeErr error
		defer func() {
			if writeErr != nil {
				logger.Error("write error response", zap.Error(writeErr))
			}
		}()

		var batchErr *errs.BatchIsInvalidError
		if errors.As(err, &batchErr) {
			writeErr = c.JSON(http.StatusBadRequest, newValidationErrorResponse(batchErr))
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			writeErr = c.JSON(httpErr.Code, errorResponse{Code: httpErr.Code, Message: http.StatusText(httpErr.Code)})
			return
		}

		code := statusFor(err)
		message := err.Error()
		if code == http.StatusInternalServerError {
			logger.Error("request failed", zap.Error(err),
				zap.String("method", c.Request().Method), zap.String("path", c.Path()))
			message = http.StatusText(code)
		}

		writeErr = c.JSON(code, errorResponse{Code: code, Message: message})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrObjectAlreadyExists):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func newValidationErrorResponse(err *errs.BatchIsInvalidError) validationErrorResponse {
	refs := newIDRefs(err.IDs)
	if err.ParamName == "orders" {
		return validationErrorResponse{ValidationError: ordersResponse{Orders: refs}}
	}
	return validationErrorResponse{ValidationError: couriersResponse{Couriers: refs}}
}
