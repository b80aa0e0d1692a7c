package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/mrb1sh0p/email-mass-api/internal/auth/middleware"
	"github.com/mrb1sh0p/email-mass-api/internal/models/domain"
	"github.com/mrb1sh0p/email-mass-api/internal/platform/validation"
)

type Controller struct {
	svc domain.Service
}

func New(s domain.Service) *Controller { return &Controller{svc: s} }

func (h *Controller) Register(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.POST("/models", h.create, auth)
	e.GET("/models", h.list, auth)
	e.PUT("/models/:modelId", h.update, auth)
	e.DELETE("/models/:modelId", h.remove, auth)
}

type createReq struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

type updateReq struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

func orgOf(c echo.Context) (string, string, bool) {
	actor, ok := mw.Actor(c)
	if !ok || actor.OrganizationID == "" {
		return "", "", false
	}
	return actor.OrganizationID, actor.UID, true
}

// CreateModel godoc
// @Summary      Create email model
// @Description  Stores a reusable template: title becomes the subject, body the HTML content
// @Tags         models
// @Accept       json
// @Produce      json
// @Param        body  body  createReq  true  "model"
// @Success      201   {object}  domain.Model
// @Failure      400   {object}  map[string]string
// @Security     BearerAuth
// @Router       /models [post]
func (h *Controller) create(c echo.Context) error {
	orgID, _, ok := orgOf(c)
	if !ok {
		return noOrg(c)
	}

	var req createReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "invalid json"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, validation.ErrorResponse(err))
	}

	m, err := h.svc.Create(c.Request().Context(), orgID, req.Title, req.Body)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "model": m})
}

// ListModels godoc
// @Summary      List email models
// @Tags         models
// @Produce      json
// @Success      200  {array}  domain.Model
// @Security     BearerAuth
// @Router       /models [get]
func (h *Controller) list(c echo.Context) error {
	orgID, _, ok := orgOf(c)
	if !ok {
		return noOrg(c)
	}

	ms, err := h.svc.List(c.Request().Context(), orgID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "models": ms})
}

// UpdateModel godoc
// @Summary      Update email model
// @Description  Applies a partial update; omitted fields are left untouched
// @Tags         models
// @Accept       json
// @Produce      json
// @Param        modelId  path  string     true  "model id"
// @Param        body     body  updateReq  true  "fields to update"
// @Success      200  {object}  domain.Model
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /models/{modelId} [put]
func (h *Controller) update(c echo.Context) error {
	orgID, _, ok := orgOf(c)
	if !ok {
		return noOrg(c)
	}

	var req updateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "invalid json"})
	}

	m, err := h.svc.Update(c.Request().Context(), orgID, domain.UpdateInput{
		ModelID: c.Param("modelId"),
		Title:   req.Title,
		Body:    req.Body,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "model": m})
}

// DeleteModel godoc
// @Summary      Delete email model
// @Tags         models
// @Produce      json
// @Param        modelId  path  string  true  "model id"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /models/{modelId} [delete]
func (h *Controller) remove(c echo.Context) error {
	orgID, _, ok := orgOf(c)
	if !ok {
		return noOrg(c)
	}

	if err := h.svc.Delete(c.Request().Context(), orgID, c.Param("modelId")); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func noOrg(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]any{
		"success":   false,
		"error":     "user does not belong to an organization",
		"errorCode": "MISSING_ORGANIZATION_ID",
	})
}

func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]any{"success": false, "error": err.Error(), "errorCode": "TEMPLATE_NOT_FOUND"})
	case errors.Is(err, domain.ErrTitleBodyRequired),
		errors.Is(err, domain.ErrModelIDRequired),
		errors.Is(err, domain.ErrNothingToUpdate):
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "internal error"})
	}
}
