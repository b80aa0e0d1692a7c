package users

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mrb1sh0p/email-mass-api/internal/platform/identity"
	ctrl "github.com/mrb1sh0p/email-mass-api/internal/users/controller"
	"github.com/mrb1sh0p/email-mass-api/internal/users/domain"
	svc "github.com/mrb1sh0p/email-mass-api/internal/users/service"
)

// Register wires the users module and registers HTTP routes. The repository
// is built by the caller because auth and orgs share it.
func Register(e *echo.Echo, repo domain.Repository, idp identity.Provider, members svc.Memberships, log zerolog.Logger, auth echo.MiddlewareFunc) {
	s := svc.New(repo, idp, members, log)
	c := ctrl.New(s)
	c.Register(e, auth)
}
