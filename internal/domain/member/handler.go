package member

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medscheme/medscheme/internal/platform/auth"
)

// Handler provides HTTP handlers for the scheme member roster.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers all member roster routes.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "scheme_admin", "viewer"))
	read.GET("/schemes/:id/members/", h.ListMembers)
	read.GET("/schemes/:id/members/:memberID/", h.GetMember)

	write := api.Group("", auth.RequireRole("admin", "scheme_admin"))
	write.POST("/schemes/:id/members/", h.Enroll)
	write.POST("/schemes/:id/members/:memberID/terminate/", h.Terminate)
}

func (h *Handler) ListMembers(c echo.Context) error {
	schemeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid scheme id")
	}
	members, err := h.svc.ListMembers(c.Request().Context(), schemeID, c.QueryParam("status"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"results": members})
}

func (h *Handler) Enroll(c echo.Context) error {
	schemeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid scheme id")
	}
	var in EnrollInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	m, err := h.svc.Enroll(c.Request().Context(), schemeID, in)
	if err != nil {
		if errors.Is(err, ErrFamilyNotApplicable) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) GetMember(c echo.Context) error {
	id, err := uuid.Parse(c.Param("memberID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid member id")
	}
	m, err := h.svc.GetMember(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "member not found")
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Terminate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("memberID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid member id")
	}
	m, err := h.svc.Terminate(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}
