package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/mrb1sh0p/email-mass-api/internal/auth/middleware"
	"github.com/mrb1sh0p/email-mass-api/internal/platform/identity"
	"github.com/mrb1sh0p/email-mass-api/internal/platform/validation"
	"github.com/mrb1sh0p/email-mass-api/internal/users/domain"
)

type Controller struct {
	svc domain.Service
}

func New(s domain.Service) *Controller { return &Controller{svc: s} }

func (h *Controller) Register(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.POST("/register", h.register, auth)
	e.GET("/users", h.list, auth)
	e.DELETE("/users/:uid", h.remove, auth)
}

type registerReq struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	OrganizationID string `json:"organizationId"`
}

// RegisterUser godoc
// @Summary      Register user
// @Description  Creates a user account inside an organization; admins only
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  registerReq  true  "new user"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Security     BearerAuth
// @Router       /register [post]
func (h *Controller) register(c echo.Context) error {
	actor, ok := mw.Actor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "error": "unauthorized"})
	}

	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "invalid json"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, validation.ErrorResponse(err))
	}

	uid, err := h.svc.Register(c.Request().Context(), actor, domain.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "uid": uid})
}

// ListUsers godoc
// @Summary      List users
// @Description  Lists users visible to the caller, optionally filtered by name prefix
// @Tags         users
// @Produce      json
// @Param        search  query  string  false  "name prefix"
// @Param        limit   query  int     false  "page size"
// @Success      200  {array}  domain.Summary
// @Security     BearerAuth
// @Router       /users [get]
func (h *Controller) list(c echo.Context) error {
	actor, ok := mw.Actor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "error": "unauthorized"})
	}

	opts := domain.ListOptions{Search: c.QueryParam("search")}
	if n, err := intParam(c, "limit"); err == nil {
		opts.Limit = n
	}

	users, err := h.svc.List(c.Request().Context(), actor, opts)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "users": users})
}

// DeleteUser godoc
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Param        uid  path  string  true  "user id"
// @Success      200  {object}  map[string]bool
// @Failure      403  {object}  map[string]string
// @Security     BearerAuth
// @Router       /users/{uid} [delete]
func (h *Controller) remove(c echo.Context) error {
	actor, ok := mw.Actor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "error": "unauthorized"})
	}

	if err := h.svc.Delete(c.Request().Context(), actor, c.Param("uid")); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func intParam(c echo.Context, name string) (int, error) {
	var n int
	err := echo.QueryParamsBinder(c).Int(name, &n).BindError()
	if err != nil || n == 0 {
		return 0, errors.New("missing")
	}
	return n, nil
}

func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrWrongOrg):
		return c.JSON(http.StatusForbidden, map[string]any{"success": false, "error": err.Error()})
	case errors.Is(err, identity.ErrEmailInUse):
		return c.JSON(http.StatusConflict, map[string]any{"success": false, "error": err.Error()})
	case errors.Is(err, domain.ErrMissingField):
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "internal error"})
	}
}
