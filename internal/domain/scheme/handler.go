package scheme

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medscheme/medscheme/internal/platform/auth"
	"github.com/medscheme/medscheme/pkg/pagination"
)

// Handler provides HTTP handlers for the scheme domain.
type Handler struct {
	svc *Service
}

// NewHandler creates a new scheme domain handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers all scheme domain routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "scheme_admin", "viewer"))
	read.GET("/schemes/", h.ListSchemes)
	read.GET("/schemes/:id/", h.GetScheme)
	read.GET("/schemes/:id/periods/", h.ListPeriods)

	write := api.Group("", auth.RequireRole("admin", "scheme_admin"))
	write.POST("/schemes/", h.CreateScheme)
	write.PUT("/schemes/:id/", h.UpdateScheme)
	write.DELETE("/schemes/:id/", h.DeleteScheme)
	write.POST("/schemes/:id/activate/", h.Activate)
	write.POST("/schemes/:id/deactivate/", h.Deactivate)
	write.POST("/schemes/:id/suspend/", h.Suspend)
	write.POST("/schemes/:id/renew/", h.Renew)
}

func (h *Handler) ListSchemes(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, page, err := h.svc.ListSchemes(c.Request().Context(), ListParams{
		Search:   c.QueryParam("search"),
		Status:   c.QueryParam("status"),
		Company:  c.QueryParam("company"),
		Ordering: c.QueryParam("ordering"),
		Page:     pg.Page,
		PageSize: pg.PageSize,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Scheme{}
	}
	resp := pagination.NewResponse(items, total, pagination.Params{Page: page, PageSize: pg.PageSize})
	return c.JSON(http.StatusOK, map[string]interface{}{
		"results":   items,
		"total":     resp.Total,
		"page":      resp.Page,
		"page_size": resp.PageSize,
		"pages":     resp.Pages,
	})
}

func (h *Handler) GetScheme(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sch, err := h.svc.GetScheme(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "scheme not found")
	}
	return c.JSON(http.StatusOK, sch)
}

func (h *Handler) ListPeriods(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	periods, err := h.svc.ListPeriods(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "scheme not found")
	}
	if periods == nil {
		periods = []*SchemePeriod{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"results": periods})
}

func (h *Handler) CreateScheme(c echo.Context) error {
	var in CreateSchemeInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sch, err := h.svc.CreateScheme(c.Request().Context(), &in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, sch)
}

func (h *Handler) UpdateScheme(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in UpdateSchemeInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sch, err := h.svc.UpdateScheme(c.Request().Context(), id, &in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, sch)
}

func (h *Handler) DeleteScheme(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	hard := c.QueryParam("hard") == "true"
	if err := h.svc.DeleteScheme(c.Request().Context(), id, hard); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "scheme not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Activate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Activate(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "scheme not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": StatusActive})
}

func (h *Handler) Deactivate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Deactivate(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "scheme not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": StatusInactive})
}

func (h *Handler) Suspend(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Suspend(c.Request().Context(), id, body.Reason); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"status": StatusSuspended, "reason": body.Reason})
}

func (h *Handler) Renew(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in RenewInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	period, err := h.svc.Renew(c.Request().Context(), id, &in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, period)
}
