package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/dashboard")
	g.GET("/stats", h.Stats)
	g.GET("/trends", h.Trends)
	g.GET("/inventory", h.Inventory)
}

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) Trends(c echo.Context) error {
	trends, err := h.svc.Trends(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, trends)
}

func (h *Handler) Inventory(c echo.Context) error {
	totals, err := h.svc.InventorySummary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"totals": totals})
}
