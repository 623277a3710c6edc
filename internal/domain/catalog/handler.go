package catalog

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medscheme/medscheme/internal/platform/auth"
)

// Handler provides HTTP handlers for the catalog domain.
type Handler struct {
	svc *Service
}

// NewHandler creates a new catalog domain handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers all catalog domain routes. The four simple
// lookup entities share handlers parameterized by model name.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "scheme_admin", "viewer"))
	read.GET("/content-types/", h.ListContentTypes)
	read.GET("/benefits/", h.ListBenefits)
	read.GET("/plans/", h.ListPlans)

	write := api.Group("", auth.RequireRole("admin", "scheme_admin"))
	write.POST("/benefits/", h.CreateBenefit)
	write.PUT("/benefits/:id/", h.UpdateBenefit)
	write.DELETE("/benefits/:id/", h.DeleteBenefit)
	write.POST("/plans/", h.CreatePlan)
	write.PUT("/plans/:id/", h.UpdatePlan)
	write.DELETE("/plans/:id/", h.DeletePlan)

	for path, model := range map[string]string{
		"hospitals": ModelHospital,
		"services":  ModelService,
		"labtests":  ModelLabTest,
		"medicines": ModelMedicine,
	} {
		m := model
		read.GET("/"+path+"/", func(c echo.Context) error { return h.listItems(c, m) })
		write.POST("/"+path+"/", func(c echo.Context) error { return h.createItem(c, m) })
		write.PUT("/"+path+"/:id/", func(c echo.Context) error { return h.updateItem(c, m) })
		write.DELETE("/"+path+"/:id/", func(c echo.Context) error { return h.deleteItem(c, m) })
	}
}

func results(c echo.Context, items interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"results": items})
}

func (h *Handler) ListContentTypes(c echo.Context) error {
	items, err := h.svc.ListContentTypes(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*ContentType{}
	}
	return results(c, items)
}

// -- Benefits --

func (h *Handler) ListBenefits(c echo.Context) error {
	items, err := h.svc.ListBenefits(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Benefit{}
	}
	return results(c, items)
}

func (h *Handler) CreateBenefit(c echo.Context) error {
	var b Benefit
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateBenefit(c.Request().Context(), &b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) UpdateBenefit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var b Benefit
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b.ID = id
	if err := h.svc.UpdateBenefit(c.Request().Context(), &b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) DeleteBenefit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteBenefit(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Plans --

func (h *Handler) ListPlans(c echo.Context) error {
	items, err := h.svc.ListPlans(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Plan{}
	}
	return results(c, items)
}

func (h *Handler) CreatePlan(c echo.Context) error {
	var p Plan
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePlan(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdatePlan(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Plan
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.UpdatePlan(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePlan(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeletePlan(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Simple lookup entities --

func (h *Handler) listItems(c echo.Context, model string) error {
	items, err := h.svc.ListItems(c.Request().Context(), model, c.QueryParam("status"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Item{}
	}
	return results(c, items)
}

func (h *Handler) createItem(c echo.Context, model string) error {
	var it Item
	if err := c.Bind(&it); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateItem(c.Request().Context(), model, &it); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, it)
}

func (h *Handler) updateItem(c echo.Context, model string) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var it Item
	if err := c.Bind(&it); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	it.ID = id
	if err := h.svc.UpdateItem(c.Request().Context(), model, &it); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, it)
}

func (h *Handler) deleteItem(c echo.Context, model string) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteItem(c.Request().Context(), model, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
