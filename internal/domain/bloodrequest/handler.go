package bloodrequest

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bloodlink/bloodlink/internal/platform/apperr"
	"github.com/bloodlink/bloodlink/internal/platform/auth"
	"github.com/bloodlink/bloodlink/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group, required, optional echo.MiddlewareFunc) {
	api.GET("/requests", h.List)
	api.POST("/requests", h.Create, optional)
	api.POST("/requests/:id/accept", h.Accept, required)
	api.PUT("/requests/:id", h.Update, required)
	api.DELETE("/requests/:id", h.Delete, required)
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid request body")
	}
	ctx := c.Request().Context()
	br, err := h.svc.Create(ctx, auth.UserIDFromContext(ctx), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, br)
}

func (h *Handler) List(c echo.Context) error {
	filter := Filter{
		Status:     c.QueryParam("status"),
		BloodGroup: c.QueryParam("blood_group"),
		Urgency:    c.QueryParam("urgency"),
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Accept(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid id")
	}
	ctx := c.Request().Context()
	br, err := h.svc.Accept(ctx, id, auth.UserIDFromContext(ctx))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, br)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid request body")
	}
	ctx := c.Request().Context()
	br, err := h.svc.Update(ctx, id, auth.UserIDFromContext(ctx), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, br)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid id")
	}
	ctx := c.Request().Context()
	if err := h.svc.Delete(ctx, id, auth.UserIDFromContext(ctx)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
