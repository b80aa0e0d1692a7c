package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/mrb1sh0p/email-mass-api/internal/auth/middleware"
	"github.com/mrb1sh0p/email-mass-api/internal/mailer/domain"
	svc "github.com/mrb1sh0p/email-mass-api/internal/mailer/service"
)

type Controller struct {
	svc *svc.Service
}

func New(s *svc.Service) *Controller { return &Controller{svc: s} }

// Register mounts the mailer routes. All of them require a session; dispatch
// additionally goes through the send rate limiter, and the SMTP configuration
// and log routes are restricted to organization administrators.
func (h *Controller) Register(e *echo.Echo, auth echo.MiddlewareFunc, sendLimit echo.MiddlewareFunc) {
	e.POST("/send", h.dispatch, auth, sendLimit)
	e.POST("/smtp", h.saveSMTP, auth, mw.RequireOrgAdmin)
	e.GET("/smtp", h.getSMTP, auth, mw.RequireOrgAdmin)
	e.GET("/emailLogs", h.listLogs, auth, mw.RequireOrgAdmin)
}

// Dispatch godoc
// @Summary      Dispatch bulk email
// @Description  Sends a stored model to a recipient list through the org's SMTP server
// @Tags         mailer
// @Accept       json
// @Produce      json
// @Param        body  body  domain.DispatchRequest  true  "dispatch request"
// @Success      200   {object}  domain.DispatchResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Security     BearerAuth
// @Router       /send [post]
func (h *Controller) dispatch(c echo.Context) error {
	actor, ok := mw.Actor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "error": "unauthorized"})
	}
	if actor.OrganizationID == "" {
		return fail(c, domain.BadRequest(domain.CodeMissingOrganizationID,
			"user does not belong to an organization"))
	}

	var req domain.DispatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "invalid json"})
	}

	resp, err := h.svc.Dispatch(c.Request().Context(), actor.OrganizationID, actor.UID, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// SaveSMTP godoc
// @Summary      Save SMTP configuration
// @Description  Creates or replaces the organization's SMTP configuration
// @Tags         mailer
// @Accept       json
// @Produce      json
// @Param        body  body  domain.SMTPConfig  true  "smtp config"
// @Success      200   {object}  domain.SMTPConfig
// @Failure      400   {object}  map[string]string
// @Security     BearerAuth
// @Router       /smtp [post]
func (h *Controller) saveSMTP(c echo.Context) error {
	actor, ok := mw.Actor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "error": "unauthorized"})
	}
	if actor.OrganizationID == "" {
		return fail(c, domain.BadRequest(domain.CodeMissingOrganizationID,
			"user does not belong to an organization"))
	}

	var cfg domain.SMTPConfig
	if err := c.Bind(&cfg); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "invalid json"})
	}

	saved, created, err := h.svc.SaveSMTPConfig(c.Request().Context(), actor.OrganizationID, actor.UID, cfg)
	if err != nil {
		return fail(c, err)
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	saved.AuthPassword = ""
	return c.JSON(status, map[string]any{"success": true, "config": saved})
}

// GetSMTP godoc
// @Summary      Get SMTP configuration
// @Tags         mailer
// @Produce      json
// @Success      200  {object}  domain.SMTPConfig
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /smtp [get]
func (h *Controller) getSMTP(c echo.Context) error {
	actor, ok := mw.Actor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "error": "unauthorized"})
	}
	if actor.OrganizationID == "" {
		return fail(c, domain.BadRequest(domain.CodeMissingOrganizationID,
			"user does not belong to an organization"))
	}

	cfg, found, err := h.svc.GetSMTPConfig(c.Request().Context(), actor.OrganizationID)
	if err != nil {
		return fail(c, err)
	}
	if !found {
		return fail(c, domain.NotFound(domain.CodeSMTPNotFound, "SMTP configuration not found"))
	}
	cfg.AuthPassword = ""
	return c.JSON(http.StatusOK, map[string]any{"success": true, "config": cfg})
}

// ListLogs godoc
// @Summary      List send logs
// @Description  Returns the organization's dispatch history, newest first
// @Tags         mailer
// @Produce      json
// @Success      200  {array}  domain.SendLog
// @Security     BearerAuth
// @Router       /emailLogs [get]
func (h *Controller) listLogs(c echo.Context) error {
	actor, ok := mw.Actor(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "error": "unauthorized"})
	}
	if actor.OrganizationID == "" {
		return fail(c, domain.BadRequest(domain.CodeMissingOrganizationID,
			"user does not belong to an organization"))
	}

	logs, err := h.svc.ListLogs(c.Request().Context(), actor.OrganizationID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "logs": logs})
}

func fail(c echo.Context, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return c.JSON(de.Status, map[string]any{
			"success":   false,
			"error":     de.Message,
			"errorCode": de.Code,
		})
	}
	return c.JSON(http.StatusInternalServerError, map[string]any{
		"success":   false,
		"error":     "internal error",
		"errorCode": domain.CodeInternalError,
	})
}
