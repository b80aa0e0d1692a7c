package orgs

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	ctrl "github.com/mrb1sh0p/email-mass-api/internal/orgs/controller"
	"github.com/mrb1sh0p/email-mass-api/internal/orgs/domain"
	svc "github.com/mrb1sh0p/email-mass-api/internal/orgs/service"
)

// Register wires the orgs module and registers HTTP routes. The repository is
// built by the caller because the users module shares it for memberships.
func Register(e *echo.Echo, repo domain.Repository, roles svc.RoleSetter, log zerolog.Logger, auth echo.MiddlewareFunc) {
	s := svc.New(repo, roles, log)
	c := ctrl.New(s)
	c.Register(e, auth)
}
