package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"kahawa-backend/internal/domain/organization"
	"kahawa-backend/internal/usecase/membership"
)

type MembershipHandler struct{ uc *membership.Usecase }

func NewMembershipHandler(uc *membership.Usecase) *MembershipHandler {
	return &MembershipHandler{uc: uc}
}

type addFarmersReq struct {
	FarmerIDs []string `json:"farmer_ids" validate:"required,min=1,dive,hex32"`
}

// AddFarmers links one or many farmers to the organization in the path.
func (h *MembershipHandler) AddFarmers(c echo.Context) error {
	typ := organization.Type(c.Param("type"))
	if !typ.Valid() {
		return domainError(c, organization.ErrInvalidType)
	}

	var req addFarmersReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	ctx := c.Request().Context()
	orgID := c.Param("org_id")

	if len(req.FarmerIDs) == 1 {
		if err := h.uc.AddFarmerToOrganization(ctx, req.FarmerIDs[0], typ, orgID); err != nil {
			return domainError(c, err)
		}
		return c.JSON(http.StatusOK, membership.BatchResult{Requested: 1, Updated: 1})
	}

	res, err := h.uc.AddFarmersToOrganization(ctx, req.FarmerIDs, typ, orgID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *MembershipHandler) RemoveFarmer(c echo.Context) error {
	if err := h.uc.RemoveFarmerFromOrganization(c.Request().Context(), c.Param("farmer_id")); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type transferReq struct {
	Type  organization.Type `json:"type" validate:"required,oneof=cooperative sacco"`
	OrgID string            `json:"org_id" validate:"required"`
}

func (h *MembershipHandler) TransferFarmer(c echo.Context) error {
	var req transferReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	if err := h.uc.TransferFarmer(c.Request().Context(), c.Param("farmer_id"), req.Type, req.OrgID); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MembershipHandler) ListMembers(c echo.Context) error {
	typ := organization.Type(c.Param("type"))
	if !typ.Valid() {
		return domainError(c, organization.ErrInvalidType)
	}
	farmers, err := h.uc.ListMembers(c.Request().Context(), typ, c.Param("org_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"farmers": farmers, "count": len(farmers)})
}

func (h *MembershipHandler) Reconcile(c echo.Context) error {
	typ := organization.Type(c.Param("type"))
	if !typ.Valid() {
		return domainError(c, organization.ErrInvalidType)
	}
	count, err := h.uc.ReconcileFarmerCount(c.Request().Context(), typ, c.Param("org_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"farmer_count": count})
}

func (h *MembershipHandler) ResolveOrganization(c echo.Context) error {
	m, err := h.uc.ResolveOrganization(c.Request().Context(), c.Param("farmer_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}
