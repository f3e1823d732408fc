package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"kahawa-backend/internal/domain/creditrequest"
	"kahawa-backend/internal/usecase/creditflow"
)

type CreditRequestHandler struct{ uc *creditflow.Usecase }

func NewCreditRequestHandler(uc *creditflow.Usecase) *CreditRequestHandler {
	return &CreditRequestHandler{uc: uc}
}

type createRequestReq struct {
	FarmerID    string  `json:"farmer_id" validate:"required,hex32"`
	Amount      float64 `json:"amount" validate:"required,gt=0,dec2"`
	Description string  `json:"description"`
}

func (h *CreditRequestHandler) CreateRequest(c echo.Context) error {
	var req createRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Create(c.Request().Context(), creditflow.CreateInput{
		FarmerID:    req.FarmerID,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *CreditRequestHandler) ListRequests(c echo.Context) error {
	dtos, err := h.uc.List(c.Request().Context(), creditrequest.Status(c.QueryParam("status")))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"credit_requests": dtos})
}

func (h *CreditRequestHandler) GetRequest(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("request_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CreditRequestHandler) ApproveRequest(c echo.Context) error {
	dto, err := h.uc.Approve(c.Request().Context(), c.Param("request_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CreditRequestHandler) RejectRequest(c echo.Context) error {
	dto, err := h.uc.Reject(c.Request().Context(), c.Param("request_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type disburseReq struct {
	InterestRate float64 `json:"interest_rate" validate:"gte=0"`
	TermMonths   int     `json:"term_months" validate:"required,gt=0"`
}

func (h *CreditRequestHandler) DisburseRequest(c echo.Context) error {
	var req disburseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	l, err := h.uc.Disburse(c.Request().Context(), creditflow.DisburseInput{
		RequestID:    c.Param("request_id"),
		InterestRate: req.InterestRate,
		TermMonths:   req.TermMonths,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}
