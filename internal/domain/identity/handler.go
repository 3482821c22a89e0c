package identity

import (
	"net/http"

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

func (h *Handler) RegisterRoutes(api *echo.Group, required echo.MiddlewareFunc) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.GET("/donors", h.ListDonors)

	me := api.Group("/users/me", required)
	me.GET("", h.Me)
	me.PUT("", h.UpdateMe)
	me.PUT("/availability", h.SetAvailability)
	me.POST("/donations", h.RecordDonation)
}

type authResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid request body")
	}
	u, token, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{User: u, Token: token})
}

func (h *Handler) Login(c echo.Context) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid request body")
	}
	u, token, err := h.svc.Login(c.Request().Context(), in.Email, in.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{User: u, Token: token})
}

func (h *Handler) Me(c echo.Context) error {
	u, err := h.svc.GetProfile(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateMe(c echo.Context) error {
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return apperr.Validation("invalid request body")
	}
	u, err := h.svc.UpdateProfile(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) SetAvailability(c echo.Context) error {
	var in struct {
		IsAvailable *bool `json:"is_available"`
	}
	if err := c.Bind(&in); err != nil || in.IsAvailable == nil {
		return apperr.Validation("is_available is required")
	}
	ctx := c.Request().Context()
	if err := h.svc.SetAvailability(ctx, auth.UserIDFromContext(ctx), *in.IsAvailable); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"is_available": *in.IsAvailable})
}

func (h *Handler) RecordDonation(c echo.Context) error {
	ctx := c.Request().Context()
	u, err := h.svc.RecordDonation(ctx, auth.UserIDFromContext(ctx))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) ListDonors(c echo.Context) error {
	filter := DonorFilter{
		BloodGroup: c.QueryParam("blood_group"),
		District:   c.QueryParam("district"),
	}
	if v := c.QueryParam("available"); v != "" {
		available := v == "true"
		filter.Available = &available
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListDonors(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
