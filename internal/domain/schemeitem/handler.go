package schemeitem

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/medscheme/medscheme/internal/platform/auth"
)

// Handler provides HTTP handlers for the assignment workspace.
type Handler struct {
	svc *Service
}

// NewHandler creates a new schemeitem domain handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers all schemeitem domain routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "scheme_admin", "viewer"))
	read.GET("/scheme-items/", h.ListAssigned)
	read.GET("/scheme-items/available/", h.ListAvailable)

	write := api.Group("", auth.RequireRole("admin", "scheme_admin"))
	write.POST("/scheme-items/bulk-assign/", h.BulkAssign)
	write.POST("/scheme-items/bulk-remove/", h.BulkRemove)
	write.PUT("/scheme-items/:id/", h.UpdateOverrides)
	write.DELETE("/scheme-items/:id/", h.Remove)
}

func (h *Handler) schemeParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.QueryParam("scheme"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid scheme")
	}
	return id, nil
}

func (h *Handler) ListAssigned(c echo.Context) error {
	schemeID, err := h.schemeParam(c)
	if err != nil {
		return err
	}
	items, err := h.svc.ListAssigned(c.Request().Context(), schemeID, c.QueryParam("content_type"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if items == nil {
		items = []*SchemeItem{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"results": items})
}

func (h *Handler) ListAvailable(c echo.Context) error {
	schemeID, err := h.schemeParam(c)
	if err != nil {
		return err
	}
	items, err := h.svc.ListAvailable(c.Request().Context(), schemeID, c.QueryParam("content_type"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if items == nil {
		items = []*AvailableItem{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"results": items})
}

func (h *Handler) BulkAssign(c echo.Context) error {
	var in BulkAssignInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	items, err := h.svc.BulkAssign(c.Request().Context(), &in)
	if err != nil {
		if errors.Is(err, ErrPlanRequired) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"assigned": len(items), "results": items})
}

func (h *Handler) BulkRemove(c echo.Context) error {
	var in BulkRemoveInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	removed, err := h.svc.BulkRemove(c.Request().Context(), &in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"removed": removed})
}

func (h *Handler) UpdateOverrides(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		LimitAmount      *decimal.Decimal `json:"limit_amount"`
		CopaymentPercent *decimal.Decimal `json:"copayment_percent"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	it, err := h.svc.UpdateOverrides(c.Request().Context(), id, body.LimitAmount, body.CopaymentPercent)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, it)
}

func (h *Handler) Remove(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Remove(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "scheme item not found")
	}
	return c.NoContent(http.StatusNoContent)
}
