package company

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medscheme/medscheme/internal/platform/auth"
)

// Handler provides HTTP handlers for the company domain.
type Handler struct {
	svc *Service
}

// NewHandler creates a new company domain handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers all company domain routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "scheme_admin", "viewer"))
	read.GET("/companies/", h.ListCompanies)
	read.GET("/companies/:id/", h.GetCompany)

	write := api.Group("", auth.RequireRole("admin", "scheme_admin"))
	write.POST("/companies/", h.CreateCompany)
	write.PUT("/companies/:id/", h.UpdateCompany)
	write.DELETE("/companies/:id/", h.DeleteCompany)
}

func (h *Handler) ListCompanies(c echo.Context) error {
	items, err := h.svc.ListCompanies(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Company{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"results": items})
}

func (h *Handler) GetCompany(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	co, err := h.svc.GetCompany(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "company not found")
	}
	return c.JSON(http.StatusOK, co)
}

func (h *Handler) CreateCompany(c echo.Context) error {
	var co Company
	if err := c.Bind(&co); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateCompany(c.Request().Context(), &co); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, co)
}

func (h *Handler) UpdateCompany(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var co Company
	if err := c.Bind(&co); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	co.ID = id
	if err := h.svc.UpdateCompany(c.Request().Context(), &co); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, co)
}

func (h *Handler) DeleteCompany(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteCompany(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
