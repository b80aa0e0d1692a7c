package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mrb1sh0p/email-mass-api/internal/auth/domain"
	svc "github.com/mrb1sh0p/email-mass-api/internal/auth/service"
	"github.com/mrb1sh0p/email-mass-api/internal/platform/validation"
)

type Controller struct {
	svc *svc.Service
}

func New(s *svc.Service) *Controller { return &Controller{svc: s} }

func (h *Controller) Register(e *echo.Echo, limit echo.MiddlewareFunc) {
	e.POST("/auth", h.authenticate, limit)
}

type authReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResp struct {
	Auth  bool   `json:"auth"`
	Token string `json:"token"`
}

// Authenticate godoc
// @Summary      Authenticate
// @Description  Signs in with email/password and returns a session JWT
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  authReq  true  "credentials"
// @Success      200   {object}  authResp
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth [post]
func (h *Controller) authenticate(c echo.Context) error {
	var req authReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "invalid json"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, validation.ErrorResponse(err))
	}

	token, err := h.svc.Login(c.Request().Context(), domain.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, domain.ErrMissingCredentials) {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		}
		var ce *domain.CredentialError
		if errors.As(err, &ce) {
			return c.JSON(http.StatusUnauthorized, map[string]any{
				"success":   false,
				"errorCode": ce.Code,
				"error":     "authentication failed",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"success":   false,
			"errorCode": "INTERNAL_ERROR",
			"error":     "an error occurred during authentication",
		})
	}
	return c.JSON(http.StatusOK, authResp{Auth: true, Token: token})
}
