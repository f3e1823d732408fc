package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"kahawa-backend/internal/domain/creditrequest"
	"kahawa-backend/internal/domain/farmer"
	"kahawa-backend/internal/domain/loan"
	"kahawa-backend/internal/domain/organization"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// domainError maps domain sentinels onto HTTP codes. Anything unrecognized is
// treated as a store failure: validation errors are always detected before a
// write, so an unknown error means the backend misbehaved mid-operation.
func domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, loan.ErrNotFound),
		errors.Is(err, farmer.ErrNotFound),
		errors.Is(err, organization.ErrNotFound),
		errors.Is(err, creditrequest.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, loan.ErrInvalidTransition),
		errors.Is(err, loan.ErrNotActive),
		errors.Is(err, loan.ErrVersionConflict),
		errors.Is(err, creditrequest.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, loan.ErrInvalidPaymentAmount),
		errors.Is(err, loan.ErrOverpayment):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, organization.ErrInvalidType):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "store unavailable"})
	}
}

// operatorID reads the acting operator from the request headers; the actual
// authentication happens upstream.
func operatorID(c echo.Context) string {
	return c.Request().Header.Get("Ax-Operator-Id")
}
