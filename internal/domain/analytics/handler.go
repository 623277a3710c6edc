package analytics

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medscheme/medscheme/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the statistics route. The static path wins over
// the /schemes/:id/ parameter route under echo's router, so ordering
// relative to the scheme handler does not matter.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "scheme_admin", "viewer"))
	read.GET("/schemes/statistics/", h.Statistics)
}

func (h *Handler) Statistics(c echo.Context) error {
	stats, err := h.svc.Statistics(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute statistics")
	}
	return c.JSON(http.StatusOK, stats)
}
