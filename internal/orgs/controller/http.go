package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/mrb1sh0p/email-mass-api/internal/auth/middleware"
	"github.com/mrb1sh0p/email-mass-api/internal/orgs/domain"
	svc "github.com/mrb1sh0p/email-mass-api/internal/orgs/service"
	"github.com/mrb1sh0p/email-mass-api/internal/platform/validation"
)

type Controller struct {
	svc *svc.Service
}

func New(s *svc.Service) *Controller { return &Controller{svc: s} }

func (h *Controller) Register(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.POST("/orgs", h.create, auth, mw.RequireSuperAdmin)
	e.GET("/orgs", h.list, auth)
	e.POST("/orgs/:orgId/admins/:userId", h.assignAdmin, auth, mw.RequireSuperAdmin)
}

type createReq struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// CreateOrg godoc
// @Summary      Create organization
// @Tags         orgs
// @Accept       json
// @Produce      json
// @Param        body  body  createReq  true  "organization"
// @Success      201   {object}  domain.Organization
// @Failure      400   {object}  map[string]string
// @Security     BearerAuth
// @Router       /orgs [post]
func (h *Controller) create(c echo.Context) error {
	actor, ok := mw.Actor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "error": "unauthorized"})
	}

	var req createReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "invalid json"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, validation.ErrorResponse(err))
	}

	org, err := h.svc.Create(c.Request().Context(), actor, req.Name, req.Description)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "organization": org})
}

// ListOrgs godoc
// @Summary      List organizations
// @Description  Super admins see every organization with pagination; org admins see their own
// @Tags         orgs
// @Produce      json
// @Param        search  query  string  false  "name prefix"
// @Param        page    query  int     false  "page number"
// @Param        limit   query  int     false  "page size"
// @Success      200  {object}  domain.ListResult
// @Security     BearerAuth
// @Router       /orgs [get]
func (h *Controller) list(c echo.Context) error {
	actor, ok := mw.Actor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "error": "unauthorized"})
	}

	opts := domain.ListOptions{Search: c.QueryParam("search")}
	echo.QueryParamsBinder(c).Int("page", &opts.Page).Int("limit", &opts.Limit)

	result, err := h.svc.List(c.Request().Context(), actor, opts)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// AssignAdmin godoc
// @Summary      Assign organization admin
// @Tags         orgs
// @Produce      json
// @Param        orgId   path  string  true  "organization id"
// @Param        userId  path  string  true  "user id"
// @Success      200  {object}  map[string]bool
// @Failure      403  {object}  map[string]string
// @Security     BearerAuth
// @Router       /orgs/{orgId}/admins/{userId} [post]
func (h *Controller) assignAdmin(c echo.Context) error {
	actor, ok := mw.Actor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "error": "unauthorized"})
	}

	if err := h.svc.AssignAdmin(c.Request().Context(), actor, c.Param("orgId"), c.Param("userId")); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return c.JSON(http.StatusForbidden, map[string]any{"success": false, "error": err.Error()})
	case errors.Is(err, domain.ErrNoOrg), errors.Is(err, domain.ErrNameMissing):
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "internal error"})
	}
}
