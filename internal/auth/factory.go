package auth

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	ctrl "github.com/mrb1sh0p/email-mass-api/internal/auth/controller"
	svc "github.com/mrb1sh0p/email-mass-api/internal/auth/service"
	"github.com/mrb1sh0p/email-mass-api/internal/config"
	evdomain "github.com/mrb1sh0p/email-mass-api/internal/events/domain"
	"github.com/mrb1sh0p/email-mass-api/internal/platform/identity"
	udomain "github.com/mrb1sh0p/email-mass-api/internal/users/domain"
)

// Register wires the auth module and registers HTTP routes.
func Register(e *echo.Echo, cfg config.Config, idp identity.Provider, users udomain.Repository, pub evdomain.Publisher, log zerolog.Logger, limit echo.MiddlewareFunc) {
	s := svc.New(idp, users, cfg, pub, log)
	c := ctrl.New(s)
	c.Register(e, limit)
}
